package prompts

const extractInstructions = `You are an expert in automotive risk assessment.

Identify the most common risks for the {{.Level}} level issue: {{.Target}}.
Focus on real risks observed in the automotive industry: suppliers, homologation,
manufacturing, validation, software and market exposure. Prefer risks specific to
the subject over generic program risks.`

const evaluateInstructions = `You are an expert in automotive risk assessment.

Evaluate the following risk for the {{.Level}} level subject "{{.Subject}}":

Risk Title: {{.Title}}
Risk Description: {{.Description}}`

const composeInstructions = `You are an expert in automotive risk mitigation.

Create a detailed mitigation plan for the following risk:

Risk Title: {{.Title}}
Risk Description: {{.Description}}
Level: {{.Level}}
Subject: {{.Subject}}
Risk Probability: {{printf "%.2f" .Probability}}
Cost Impact: €{{.CostImpact}}
Time Impact: {{.TimeImpact}} weeks`

var instructions = map[Stage]string{
	StageExtract:  extractInstructions,
	StageEvaluate: evaluateInstructions,
	StageCompose:  composeInstructions,
}

// Instructions returns the instruction template for a pipeline stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
