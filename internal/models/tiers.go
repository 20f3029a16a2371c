package models

// QualityTier grades an opportunity by how strong the value case is.
// The ordering is meaningful: higher tiers are strictly better.
type QualityTier int

const (
	QualityWeak QualityTier = iota
	QualityFair
	QualityGood
	QualityExcellent
)

// String returns the tier as a label suitable for storage and display.
func (q QualityTier) String() string {
	switch q {
	case QualityExcellent:
		return "excellent"
	case QualityGood:
		return "good"
	case QualityFair:
		return "fair"
	default:
		return "weak"
	}
}

// ParseQualityTier converts a stored label back to its tier. Unknown labels
// map to QualityWeak.
func ParseQualityTier(s string) QualityTier {
	switch s {
	case "excellent":
		return QualityExcellent
	case "good":
		return QualityGood
	case "fair":
		return QualityFair
	default:
		return QualityWeak
	}
}

// RiskTier grades an opportunity by how likely the stake is to be lost.
type RiskTier int

const (
	RiskLow RiskTier = iota
	RiskModerate
	RiskHigh
	RiskVeryHigh
)

// String returns the tier as a label suitable for storage and display.
func (r RiskTier) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskModerate:
		return "moderate"
	case RiskHigh:
		return "high"
	default:
		return "very_high"
	}
}

// ParseRiskTier converts a stored label back to its tier. Unknown labels map
// to RiskVeryHigh so a corrupt row is never undersold.
func ParseRiskTier(s string) RiskTier {
	switch s {
	case "low":
		return RiskLow
	case "moderate":
		return RiskModerate
	case "high":
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}
