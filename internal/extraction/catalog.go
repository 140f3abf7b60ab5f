package extraction

import (
	"fmt"

	"github.com/JaimeStill/riskline/internal/risks"
)

type entry struct {
	title       string
	description string
	probability float64
	cost        int64
	weeks       int64
	detection   float64
	mitigation  string
}

var catalog = map[risks.Level][]entry{
	risks.LevelStrategic: {
		{
			title:       "Market Demand Shift",
			description: "Significant decline in market demand for %s due to economic downturn or changing consumer preferences.",
			probability: 0.4, cost: 5_000_000, weeks: 12, detection: 0.7,
			mitigation: "Implement flexible manufacturing platforms that can quickly adapt to different models; conduct quarterly market analysis to anticipate shifts.",
		},
		{
			title:       "Regulatory Compliance Failure",
			description: "Failure to meet new emissions or safety regulations affecting %s.",
			probability: 0.35, cost: 8_000_000, weeks: 16, detection: 0.8,
			mitigation: "Establish a dedicated regulatory affairs team for continuous monitoring; build compliance margins into designs.",
		},
		{
			title:       "Competitive Technology Disruption",
			description: "Competitors introduce disruptive technology making %s less competitive.",
			probability: 0.3, cost: 10_000_000, weeks: 24, detection: 0.5,
			mitigation: "Increase R&D investment; establish technology scouting team; build strategic partnerships with tech companies.",
		},
	},
	risks.LevelProject: {
		{
			title:       "Supply Chain Disruption",
			description: "Critical component shortage affecting %s production timeline.",
			probability: 0.45, cost: 2_000_000, weeks: 8, detection: 0.6,
			mitigation: "Dual-source critical components; increase safety stock levels; develop contingency plans for each tier-1 supplier.",
		},
		{
			title:       "Quality Control Issues",
			description: "Unforeseen quality issues discovered during %s production ramp-up.",
			probability: 0.4, cost: 1_500_000, weeks: 6, detection: 0.7,
			mitigation: "Implement advanced statistical process control; increase prototype testing; enhance supplier quality management program.",
		},
		{
			title:       "Resource Allocation Conflicts",
			description: "Engineering resources diverted from %s to higher priority projects.",
			probability: 0.5, cost: 1_000_000, weeks: 10, detection: 0.8,
			mitigation: "Implement formal resource allocation process; establish clear project priorities; develop cross-training program for critical skills.",
		},
	},
	risks.LevelOperational: {
		{
			title:       "Manufacturing Process Variation",
			description: "Excessive variation in %s assembly process leading to inconsistent quality.",
			probability: 0.6, cost: 800_000, weeks: 4, detection: 0.7,
			mitigation: "Implement Six Sigma process control; increase operator training; install vision systems for real-time inspection.",
		},
		{
			title:       "Test Equipment Failure",
			description: "Critical test equipment failure affecting %s validation timeline.",
			probability: 0.3, cost: 500_000, weeks: 3, detection: 0.9,
			mitigation: "Implement preventive maintenance program; maintain backup test equipment; qualify alternative test methods.",
		},
		{
			title:       "Software Integration Issues",
			description: "Software integration problems between %s and vehicle systems.",
			probability: 0.55, cost: 1_200_000, weeks: 6, detection: 0.6,
			mitigation: "Increase software integration testing earlier in development; improve requirements management; implement continuous integration practices.",
		},
	},
}

// Catalog returns the fixed fallback risks for level, with descriptions
// naming subject. Unknown levels use the operational catalog.
func Catalog(level risks.Level, subject string) []risks.Risk {
	entries, ok := catalog[level]
	if !ok {
		entries = catalog[risks.LevelOperational]
	}

	out := make([]risks.Risk, len(entries))
	for i, e := range entries {
		r := risks.Risk{
			ID:             sequentialID(i),
			Level:          level,
			Subject:        subject,
			Title:          e.title,
			Description:    fmt.Sprintf(e.description, subject),
			MitigationPlan: e.mitigation,
		}
		r.ApplyEvaluation(risks.Evaluation{
			Probability: e.probability,
			CostImpact:  e.cost,
			TimeImpact:  e.weeks,
			Detection:   e.detection,
		})
		out[i] = r
	}
	return out
}

func sequentialID(i int) string {
	return fmt.Sprintf("R%d", i+1)
}
