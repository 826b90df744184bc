// Package license gates premium features on the configured plan.
package license

// Feature names a gated capability.
type Feature string

const (
	FeaturePDFExport    Feature = "pdf_export"
	FeatureSheetsExport Feature = "sheets_export"
)

// Plans.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Checker reports whether the current plan grants a feature.
type Checker interface {
	HasAccess(f Feature) bool
	Plan() string
}

// StaticChecker derives access from a fixed plan name. Unknown plans
// grant nothing.
type StaticChecker struct {
	plan string
}

var _ Checker = StaticChecker{}

func NewStaticChecker(plan string) StaticChecker {
	return StaticChecker{plan: plan}
}

func (c StaticChecker) Plan() string {
	return c.plan
}

func (c StaticChecker) HasAccess(f Feature) bool {
	switch c.plan {
	case PlanPro:
		return f == FeaturePDFExport || f == FeatureSheetsExport
	default:
		return false
	}
}
