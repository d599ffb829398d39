package models

// Priority classifies how urgently a regulatory update needs attention.
type Priority string

const (
	PriorityCritical    Priority = "critical"
	PriorityHigh        Priority = "high"
	PriorityMedium      Priority = "medium"
	PriorityLow         Priority = "low"
	PriorityUnspecified Priority = "unspecified"
)

// ParsePriority maps raw input onto the closed priority enumeration.
// Unknown values become PriorityUnspecified, never some nearby value.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	default:
		return PriorityUnspecified
	}
}

// ImpactLevel classifies how strongly a legal case affects the industry.
type ImpactLevel string

const (
	ImpactHigh        ImpactLevel = "high"
	ImpactMedium      ImpactLevel = "medium"
	ImpactLow         ImpactLevel = "low"
	ImpactUnspecified ImpactLevel = "unspecified"
)

// ParseImpactLevel maps raw input onto the closed impact enumeration.
func ParseImpactLevel(s string) ImpactLevel {
	switch ImpactLevel(s) {
	case ImpactHigh, ImpactMedium, ImpactLow:
		return ImpactLevel(s)
	default:
		return ImpactUnspecified
	}
}
