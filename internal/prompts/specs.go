package prompts

const extractSpec = `Return the 3-5 most critical risks. Write each field as its own
paragraph, separated by a blank line, in exactly this layout:

Risk 1: <short title>

Description: <detailed description>

Probability: <decimal between 0.0 and 1.0>

Cost Impact: <amount in euros, digits only>

Time Impact: <whole number of weeks>

Detection: <decimal between 0.0 and 1.0, 0 = very hard to detect>

Mitigation: <potential mitigation plan>

Start the next risk with "Risk 2:" and continue the same way.`

const evaluateSpec = `Provide a precise evaluation, one value per line:

Probability: <0.0-1.0, how likely the risk is to occur>
Cost Impact: <euros, financial impact if the risk occurs>
Time Impact: <weeks of schedule delay>
Detection: <0.0-1.0, 0 = very hard to detect, 1 = very easy to detect>

Return only these four lines with numeric values.`

const composeSpec = `Your mitigation plan should:
1. Identify specific actions to reduce probability
2. Identify specific actions to reduce impact
3. Define clear responsibilities
4. Include contingency planning
5. Be realistic and implementable in the automotive industry

Keep the plan concise but comprehensive.`

var specs = map[Stage]string{
	StageExtract:  extractSpec,
	StageEvaluate: evaluateSpec,
	StageCompose:  composeSpec,
}

// Spec returns the output specification for a pipeline stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
