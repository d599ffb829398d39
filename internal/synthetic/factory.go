// Package synthetic fabricates placeholder regulatory records with a
// fixed, documented algorithm. Every field is a pure function of the
// jurisdiction and sequence number, so repeated generation from the same
// store state is reproducible. Production deployments that ingest real
// court data swap a real fetcher in behind reconcile.CaseFactory; this
// package stays out of that path.
package synthetic

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/reconcile"
)

// impactCycle assigns impact levels round-robin by sequence number.
var impactCycle = []models.ImpactLevel{models.ImpactHigh, models.ImpactMedium, models.ImpactLow}

// priorityCycle does the same for regulatory update priorities.
var priorityCycle = []models.Priority{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow}

// Factory is a deterministic reconcile.CaseFactory. The zero value is
// ready to use.
type Factory struct{}

// NewCase builds the legal case for (jur, seq):
//   - id "{code}-case-{seq}" with the sequence zero-padded to 3 digits
//   - case number "{CODE}-2024-{seq}" padded to 4 digits
//   - decision date inside 2024, month seq%12, day seq%28+1
//   - impact level round-robin over high/medium/low
func (Factory) NewCase(jur reconcile.Jurisdiction, seq int) models.LegalCase {
	code := strings.ToLower(jur.Code)
	id := fmt.Sprintf("%s-case-%03d", code, seq)
	documentURL := fmt.Sprintf("https://legal-docs.example.com/%s", id)

	return models.LegalCase{
		ID:           id,
		CaseNumber:   fmt.Sprintf("%s-2024-%04d", jur.Code, seq),
		Title:        fmt.Sprintf("%s Medical Device Case %d", jur.Name, seq),
		Court:        jur.Court,
		Jurisdiction: jur.Code,
		DecisionDate: time.Date(2024, time.Month(seq%12+1), seq%28+1, 0, 0, 0, 0, time.UTC),
		Summary:      fmt.Sprintf("Medical device regulatory case %d from %s jurisdiction", seq, jur.Name),
		Content: fmt.Sprintf("This case addresses medical device regulation and compliance in %s. "+
			"Important precedent for device manufacturers and regulatory compliance.", jur.Name),
		DocumentURL: &documentURL,
		ImpactLevel: impactCycle[seq%len(impactCycle)],
		Keywords:    []string{"medical device", "regulation", "compliance", strings.ToLower(jur.Name)},
	}
}

// NewUpdate builds a placeholder regulatory update for a source. Like
// NewCase it is a pure function of its inputs; the publication date steps
// back one day per sequence number from a fixed epoch.
func (Factory) NewUpdate(sourceID, region string, seq int) models.RegulatoryUpdate {
	epoch := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

	return models.RegulatoryUpdate{
		ID:            fmt.Sprintf("%s-update-%04d", strings.ToLower(sourceID), seq),
		Title:         fmt.Sprintf("Regulatory Update %d", seq),
		Description:   fmt.Sprintf("Regulatory change %d affecting medical devices in %s", seq, region),
		SourceID:      sourceID,
		Region:        region,
		UpdateType:    "regulation",
		Priority:      priorityCycle[seq%len(priorityCycle)],
		DeviceClasses: []string{"Class II"},
		Content:       fmt.Sprintf("Regulatory update %d with compliance information for %s device manufacturers.", seq, region),
		PublishedAt:   epoch.AddDate(0, 0, -seq),
	}
}
