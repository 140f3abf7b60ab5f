// Package prompts builds the generation requests for each pipeline stage.
// A prompt is the stage instructions, the rendered subject context, and the
// stage output specification, joined by blank lines.
package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies the pipeline step a prompt is built for.
type Stage string

// Pipeline stages.
const (
	StageExtract  Stage = "extract"
	StageEvaluate Stage = "evaluate"
	StageCompose  Stage = "compose"
)

var stages = []Stage{
	StageExtract,
	StageEvaluate,
	StageCompose,
}

// Stages returns the list of valid pipeline stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known pipeline stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
