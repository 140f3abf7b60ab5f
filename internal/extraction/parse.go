package extraction

import (
	"strings"

	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/pkg/formatting"
)

// Values substituted when a field is unreadable or absent.
const (
	DefaultProbability = 0.5
	DefaultCostImpact  = 100_000
	DefaultTimeImpact  = 4
	DefaultDetection   = 0.5
	DefaultMitigation  = "To be determined"
)

const riskMarker = "Risk"

type field int

const (
	fieldNone field = iota
	fieldDescription
	fieldProbability
	fieldCost
	fieldTime
	fieldDetection
	fieldMitigation
)

// Field rules in priority order; the first rule matching a block wins.
var fieldRules = []struct {
	field    field
	keywords []string
}{
	{fieldDescription, []string{"description"}},
	{fieldProbability, []string{"probability"}},
	{fieldCost, []string{"cost", "impact"}},
	{fieldTime, []string{"time", "impact"}},
	{fieldDetection, []string{"detection"}},
	{fieldMitigation, []string{"mitigation"}},
}

func matchField(block string) field {
	for _, rule := range fieldRules {
		if formatting.ContainsAllFold(block, rule.keywords...) {
			return rule.field
		}
	}
	return fieldNone
}

type accumulator struct {
	risk   risks.Risk
	open   bool
	hasPrb bool
}

// parseBlocks reads risks from text laid out as blank-line separated blocks:
// an opening "Risk ...: title" block followed by one block per field.
func parseBlocks(text string, level risks.Level, subject string) []risks.Risk {
	var (
		out []risks.Risk
		acc accumulator
	)

	for _, block := range splitBlocks(text) {
		if !acc.open && strings.Contains(block, riskMarker) {
			if title, ok := formatting.ValueAfterColon(block); ok && title != "" {
				acc = accumulator{
					open: true,
					risk: risks.Risk{
						ID:      sequentialID(len(out)),
						Level:   level,
						Subject: subject,
						Title:   title,
						Pending: risks.MetricsAll,
					},
				}
			}
		}

		if !acc.open {
			continue
		}

		acc.apply(block)

		if acc.hasPrb {
			out = append(out, acc.risk)
			acc = accumulator{}
		}
	}

	if acc.open {
		out = append(out, acc.finish())
	}

	return out
}

func (a *accumulator) apply(block string) {
	f := matchField(block)
	if f == fieldNone {
		return
	}

	value, ok := formatting.ValueAfterColon(block)
	r := &a.risk

	switch f {
	case fieldDescription:
		if !ok {
			value = strings.TrimSpace(block)
		}
		r.Description = value
	case fieldMitigation:
		if !ok {
			value = strings.TrimSpace(block)
		}
		r.MitigationPlan = value
	case fieldProbability:
		r.SetProbability(unitOrDefault(value, ok, DefaultProbability))
		a.hasPrb = true
	case fieldDetection:
		r.SetDetection(unitOrDefault(value, ok, DefaultDetection))
	case fieldCost:
		cost := int64(DefaultCostImpact)
		if ok {
			if v, found := formatting.ExtractDigits(value); found {
				cost = v
			}
		}
		r.SetCostImpact(cost)
	case fieldTime:
		weeks := int64(DefaultTimeImpact)
		if ok {
			if v, found := formatting.ExtractFirstInt(value); found {
				weeks = v
			}
		}
		r.SetTimeImpact(weeks)
	}
}

// finish fills every missing field with its default before the final flush.
func (a *accumulator) finish() risks.Risk {
	r := a.risk
	if r.Pending.Has(risks.MetricProbability) {
		r.SetProbability(DefaultProbability)
	}
	if r.Pending.Has(risks.MetricCost) {
		r.SetCostImpact(DefaultCostImpact)
	}
	if r.Pending.Has(risks.MetricTime) {
		r.SetTimeImpact(DefaultTimeImpact)
	}
	if r.Pending.Has(risks.MetricDetection) {
		r.SetDetection(DefaultDetection)
	}
	if r.MitigationPlan == "" {
		r.MitigationPlan = DefaultMitigation
	}
	if r.Description == "" {
		r.Description = r.Title
	}
	return r
}

func unitOrDefault(value string, ok bool, def float64) float64 {
	if !ok {
		return def
	}
	if v, found := formatting.ExtractFirstFloat(value); found {
		return v
	}
	return def
}

func splitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

type jsonRisk struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Probability *float64 `json:"probability"`
	CostImpact  *float64 `json:"cost_impact"`
	TimeImpact  *float64 `json:"time_impact"`
	Detection   *float64 `json:"detection"`
	Mitigation  string   `json:"mitigation"`
}

// parseJSON reads a JSON array of risk objects, bare or fenced. Missing
// numbers take their defaults but stay pending for evaluation.
func parseJSON(text string, level risks.Level, subject string) []risks.Risk {
	items, err := formatting.Parse[[]jsonRisk](text)
	if err != nil {
		return nil
	}

	out := make([]risks.Risk, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		r := risks.Risk{
			ID:             sequentialID(len(out)),
			Level:          level,
			Subject:        subject,
			Title:          title,
			Description:    strings.TrimSpace(item.Description),
			MitigationPlan: strings.TrimSpace(item.Mitigation),
			Probability:    DefaultProbability,
			CostImpact:     DefaultCostImpact,
			TimeImpact:     DefaultTimeImpact,
			Detection:      DefaultDetection,
			Pending:        risks.MetricsAll,
		}
		if item.Probability != nil {
			r.SetProbability(*item.Probability)
		}
		if item.CostImpact != nil {
			r.SetCostImpact(int64(*item.CostImpact))
		}
		if item.TimeImpact != nil {
			r.SetTimeImpact(int64(*item.TimeImpact))
		}
		if item.Detection != nil {
			r.SetDetection(*item.Detection)
		}
		r.Normalize()
		out = append(out, r)
	}
	return out
}
