package mitigation

import (
	"strings"

	"github.com/JaimeStill/riskline/internal/risks"
)

type rule struct {
	keywords []string
	plan     string
}

// Keyword plans in priority order; the first rule with a keyword in the
// lowercased title wins.
var rules = []rule{
	{
		keywords: []string{"supply chain"},
		plan:     "1. Identify and qualify secondary suppliers for critical components. 2. Implement a supplier risk monitoring system. 3. Increase safety stock for high-risk components. 4. Develop contingency production plans for critical component shortages. 5. Conduct quarterly supply chain risk reviews with cross-functional team.",
	},
	{
		keywords: []string{"quality"},
		plan:     "1. Increase frequency of quality audits during development. 2. Implement advanced statistical process control. 3. Conduct FMEA (Failure Mode and Effects Analysis) workshops with suppliers. 4. Create rapid response quality teams ready to address issues. 5. Enhance pre-production testing protocols and acceptance criteria.",
	},
	{
		keywords: []string{"regulatory"},
		plan:     "1. Establish dedicated regulatory affairs team tracking upcoming regulations. 2. Implement monthly compliance reviews throughout development. 3. Build compliance margin into product specifications. 4. Develop relationships with regulatory bodies. 5. Create contingency plans for potential regulatory changes.",
	},
	{
		keywords: []string{"technology", "software"},
		plan:     "1. Increase early-stage technology validation and testing. 2. Implement agile development methodologies with frequent integration testing. 3. Create technology contingency roadmaps. 4. Establish partnerships with technology specialists. 5. Define clear fallback technologies that meet minimum requirements.",
	},
	{
		keywords: []string{"market", "demand"},
		plan:     "1. Develop flexible production planning to adjust to market changes. 2. Implement quarterly market analysis and forecast reviews. 3. Create modular product architectures that can be rapidly adapted. 4. Develop contingency plans for different market scenarios. 5. Establish early warning indicators for market shifts.",
	},
	{
		keywords: []string{"resource"},
		plan:     "1. Implement formal resource allocation process with executive oversight. 2. Create cross-training program for critical skills. 3. Develop contractor network for surge capacity. 4. Implement weekly resource tracking and forecasting. 5. Establish clear escalation path for resource conflicts.",
	},
	{
		keywords: []string{"test", "validation"},
		plan:     "1. Create redundancy for critical test equipment. 2. Implement preventive maintenance program for test systems. 3. Qualify alternative test methods as backup. 4. Develop agreements with external test facilities. 5. Create contingency test plans with reduced scope for emergencies.",
	},
}

var levelPlans = map[risks.Level]string{
	risks.LevelStrategic:   "1. Establish executive steering committee for risk oversight. 2. Develop alternative strategic scenarios and plans. 3. Implement quarterly risk review process. 4. Create cross-functional response teams. 5. Develop detailed contingency plans for major risk categories.",
	risks.LevelProject:     "1. Implement formal risk management process with weekly reviews. 2. Create focused mitigation plans for top 5 risks. 3. Assign risk owners with clear responsibilities. 4. Establish contingency budget and schedule buffers. 5. Develop escalation procedures for emerging risks.",
	risks.LevelOperational: "1. Implement daily monitoring of key risk indicators. 2. Create standardized troubleshooting procedures. 3. Establish backup operational processes. 4. Train team on risk identification and escalation. 5. Conduct regular operational risk simulations.",
}

// Plan returns the canned plan for a risk title, or the generic plan of
// level when no keyword matches. Unknown levels use the operational plan.
func Plan(title string, level risks.Level) string {
	lower := strings.ToLower(title)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.plan
			}
		}
	}

	if plan, ok := levelPlans[level]; ok {
		return plan
	}
	return levelPlans[risks.LevelOperational]
}
