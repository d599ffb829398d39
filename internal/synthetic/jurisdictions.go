package synthetic

import "github.com/MarcoDeltaways/Perpl-Helix/internal/reconcile"

// DefaultJurisdictions returns the built-in jurisdiction targets. The
// returned slice is a fresh copy; callers may adjust Desired counts (for
// example from configuration) without affecting later calls.
func DefaultJurisdictions() []reconcile.Jurisdiction {
	return []reconcile.Jurisdiction{
		{Code: "US", Name: "United States", Court: "U.S. District Court", Desired: 400},
		{Code: "EU", Name: "European Union", Court: "European Court of Justice", Desired: 350},
		{Code: "DE", Name: "Germany", Court: "Bundesgerichtshof", Desired: 300},
		{Code: "UK", Name: "United Kingdom", Court: "High Court of Justice", Desired: 250},
		{Code: "CH", Name: "Switzerland", Court: "Federal Supreme Court", Desired: 200},
		{Code: "FR", Name: "France", Court: "Conseil d'État", Desired: 200},
		{Code: "CA", Name: "Canada", Court: "Federal Court of Canada", Desired: 150},
		{Code: "AU", Name: "Australia", Court: "Federal Court of Australia", Desired: 125},
	}
}
