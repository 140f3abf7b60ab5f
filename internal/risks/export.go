package risks

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"id", "level", "subject", "owner", "title", "description",
	"probability", "cost_impact", "time_impact", "detection",
	"ri_cost", "ri_time", "mitigation_plan",
}

// WriteCSV writes items as CSV with a header row.
func WriteCSV(w io.Writer, items []Risk) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range items {
		record := []string{
			r.ID,
			string(r.Level),
			r.Subject,
			r.Owner,
			r.Title,
			r.Description,
			strconv.FormatFloat(r.Probability, 'f', -1, 64),
			strconv.FormatInt(r.CostImpact, 10),
			strconv.FormatInt(r.TimeImpact, 10),
			strconv.FormatFloat(r.Detection, 'f', -1, 64),
			strconv.FormatFloat(r.RICost, 'f', 2, 64),
			strconv.FormatFloat(r.RITime, 'f', 2, 64),
			r.MitigationPlan,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
