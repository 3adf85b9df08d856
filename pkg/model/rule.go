package model

// RuleKind tags the variant of a Rule.
type RuleKind string

const (
	RuleRequired RuleKind = "required"
	RuleMin      RuleKind = "min"
	RuleMax      RuleKind = "max"
	RulePattern  RuleKind = "pattern"
)

// Valid reports whether k is a known rule kind.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleRequired, RuleMin, RuleMax, RulePattern:
		return true
	default:
		return false
	}
}

// Rule is a single declarative constraint. Threshold is used by min/max,
// Pattern by pattern rules. Rules are comparable so re-registration can
// detect unchanged rule sets.
type Rule struct {
	Kind      RuleKind `json:"kind" yaml:"kind"`
	Threshold float64  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message   string   `json:"message" yaml:"message"`
}

// Required fails when the value is absent or empty.
func Required(message string) Rule {
	return Rule{Kind: RuleRequired, Message: message}
}

// Min fails when a numeric value is below threshold.
func Min(threshold float64, message string) Rule {
	return Rule{Kind: RuleMin, Threshold: threshold, Message: message}
}

// Max fails when a numeric value is above threshold.
func Max(threshold float64, message string) Rule {
	return Rule{Kind: RuleMax, Threshold: threshold, Message: message}
}

// Pattern fails when a text value does not fully match expr.
func Pattern(expr, message string) Rule {
	return Rule{Kind: RulePattern, Pattern: expr, Message: message}
}
