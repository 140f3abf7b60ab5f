// Package risks implements the risk ledger domain for riskline.
// It provides the Risk record with its scoring invariants, an in-memory
// Ledger, and the Postgres-backed System exposed over HTTP.
package risks

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// Level is a risk's position in the strategic → project → operational hierarchy.
type Level string

// Hierarchy levels.
const (
	LevelStrategic   Level = "strategic"
	LevelProject     Level = "project"
	LevelOperational Level = "operational"
)

var levels = []Level{
	LevelStrategic,
	LevelProject,
	LevelOperational,
}

// Levels returns the valid levels in hierarchy order.
func Levels() []Level {
	return levels
}

// ParseLevel validates a string as a known level. Matching ignores case and
// surrounding whitespace. Returns ErrInvalidLevel if the value is not recognized.
func ParseLevel(s string) (Level, error) {
	v := Level(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(levels, v) {
		return "", ErrInvalidLevel
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known level.
func (l *Level) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseLevel(raw)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Metrics is a set of the four estimated numeric fields of a Risk.
type Metrics uint8

// Estimated numeric fields.
const (
	MetricProbability Metrics = 1 << iota
	MetricCost
	MetricTime
	MetricDetection

	MetricsNone Metrics = 0
	MetricsAll          = MetricProbability | MetricCost | MetricTime | MetricDetection
)

// Has reports whether every metric in m is in the set.
func (s Metrics) Has(m Metrics) bool {
	return s&m == m
}

// Evaluation carries the four numeric fields produced by an evaluator.
type Evaluation struct {
	Probability float64 `json:"probability"`
	CostImpact  int64   `json:"cost_impact"`
	TimeImpact  int64   `json:"time_impact"`
	Detection   float64 `json:"detection"`
}

// Risk is one identified risk. Probability and Detection stay within [0,1],
// impacts stay non-negative, and RICost/RITime always equal Probability times
// the matching impact: every write path goes through a setter or Normalize.
//
// Pending records the numeric fields that have not been estimated yet. It is
// populated by extraction and cleared as values arrive; it is not persisted.
type Risk struct {
	ID             string    `json:"id"`
	Level          Level     `json:"level"`
	Subject        string    `json:"subject"`
	Owner          string    `json:"owner"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Probability    float64   `json:"probability"`
	CostImpact     int64     `json:"cost_impact"`
	TimeImpact     int64     `json:"time_impact"`
	Detection      float64   `json:"detection"`
	MitigationPlan string    `json:"mitigation_plan"`
	RICost         float64   `json:"ri_cost"`
	RITime         float64   `json:"ri_time"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
	UpdatedAt      time.Time `json:"updated_at,omitzero"`

	Pending Metrics `json:"-"`
}

// Complete reports whether all four numeric fields have been estimated.
func (r *Risk) Complete() bool {
	return r.Pending == MetricsNone
}

// NeedsMitigation reports whether the mitigation plan is empty.
func (r *Risk) NeedsMitigation() bool {
	return strings.TrimSpace(r.MitigationPlan) == ""
}

// SetProbability clamps p to [0,1] and refreshes the risk indices.
func (r *Risk) SetProbability(p float64) {
	r.Probability = clampUnit(p)
	r.Pending &^= MetricProbability
	r.refresh()
}

// SetCostImpact stores a non-negative cost impact and refreshes the indices.
func (r *Risk) SetCostImpact(c int64) {
	r.CostImpact = max(c, 0)
	r.Pending &^= MetricCost
	r.refresh()
}

// SetTimeImpact stores a non-negative time impact and refreshes the indices.
func (r *Risk) SetTimeImpact(t int64) {
	r.TimeImpact = max(t, 0)
	r.Pending &^= MetricTime
	r.refresh()
}

// SetDetection clamps d to [0,1].
func (r *Risk) SetDetection(d float64) {
	r.Detection = clampUnit(d)
	r.Pending &^= MetricDetection
}

// ApplyEvaluation overwrites all four numeric fields and refreshes the indices.
func (r *Risk) ApplyEvaluation(e Evaluation) {
	r.SetProbability(e.Probability)
	r.SetCostImpact(e.CostImpact)
	r.SetTimeImpact(e.TimeImpact)
	r.SetDetection(e.Detection)
}

// Values returns the four numeric fields of the risk.
func (r *Risk) Values() Evaluation {
	return Evaluation{
		Probability: r.Probability,
		CostImpact:  r.CostImpact,
		TimeImpact:  r.TimeImpact,
		Detection:   r.Detection,
	}
}

// Normalize re-establishes the record invariants after a wholesale write:
// clamps the bounded fields, falls back to Title for an empty Description,
// and recomputes the risk indices.
func (r *Risk) Normalize() {
	r.Probability = clampUnit(r.Probability)
	r.Detection = clampUnit(r.Detection)
	r.CostImpact = max(r.CostImpact, 0)
	r.TimeImpact = max(r.TimeImpact, 0)
	r.Title = strings.TrimSpace(r.Title)
	if strings.TrimSpace(r.Description) == "" {
		r.Description = r.Title
	}
	r.refresh()
}

// Validate reports whether the record can enter a ledger.
func (r *Risk) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalid)
	}
	if _, err := ParseLevel(string(r.Level)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title required", ErrInvalid)
	}
	return nil
}

func (r *Risk) refresh() {
	r.RICost = r.Probability * float64(r.CostImpact)
	r.RITime = r.Probability * float64(r.TimeImpact)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
