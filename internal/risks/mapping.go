package risks

import (
	"net/url"

	"github.com/JaimeStill/riskline/pkg/query"
	"github.com/JaimeStill/riskline/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "risks", "r").
	Project("id", "ID").
	Project("level", "Level").
	Project("subject", "Subject").
	Project("owner", "Owner").
	Project("title", "Title").
	Project("description", "Description").
	Project("probability", "Probability").
	Project("cost_impact", "CostImpact").
	Project("time_impact", "TimeImpact").
	Project("detection", "Detection").
	Project("mitigation_plan", "MitigationPlan").
	Project("ri_cost", "RICost").
	Project("ri_time", "RITime").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("seq", "Seq")

var defaultSort = query.SortField{Field: "Seq"}

// Filters contains optional filtering criteria for risk queries.
// Level and Owner use exact matching. Subject uses case-insensitive contains matching.
type Filters struct {
	Level   *Level  `json:"level,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Owner   *string `json:"owner,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Level", f.Level).
		WhereContains("Subject", f.Subject).
		WhereEquals("Owner", f.Owner)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An unknown level is reported as ErrInvalidLevel.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if l := values.Get("level"); l != "" {
		lvl, err := ParseLevel(l)
		if err != nil {
			return f, err
		}
		f.Level = &lvl
	}

	if s := values.Get("subject"); s != "" {
		f.Subject = &s
	}

	if o := values.Get("owner"); o != "" {
		f.Owner = &o
	}

	return f, nil
}

func scanRisk(s repository.Scanner) (Risk, error) {
	var (
		r   Risk
		seq int64
	)
	err := s.Scan(
		&r.ID,
		&r.Level,
		&r.Subject,
		&r.Owner,
		&r.Title,
		&r.Description,
		&r.Probability,
		&r.CostImpact,
		&r.TimeImpact,
		&r.Detection,
		&r.MitigationPlan,
		&r.RICost,
		&r.RITime,
		&r.CreatedAt,
		&r.UpdatedAt,
		&seq,
	)
	return r, err
}
