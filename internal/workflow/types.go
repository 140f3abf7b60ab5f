package workflow

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/riskline/internal/risks"
)

const (
	KeyHierarchy   = "hierarchy"
	KeyAssessState = "assessment_state"
)

// AssessmentState holds the risks accumulated across graph nodes, in
// traversal order.
type AssessmentState struct {
	Risks []risks.Risk `json:"risks"`
}

// NeedsEvaluation reports whether any risk has a pending metric.
func (s *AssessmentState) NeedsEvaluation() bool {
	return slices.ContainsFunc(s.Risks, func(r risks.Risk) bool {
		return !r.Complete()
	})
}

// NeedsMitigation reports whether any risk lacks a mitigation plan.
func (s *AssessmentState) NeedsMitigation() bool {
	return slices.ContainsFunc(s.Risks, func(r risks.Risk) bool {
		return r.NeedsMitigation()
	})
}

// Result is the output of one assessment run.
type Result struct {
	BatchID     uuid.UUID    `json:"batch_id"`
	Risks       []risks.Risk `json:"risks"`
	CompletedAt time.Time    `json:"completed_at"`
}
