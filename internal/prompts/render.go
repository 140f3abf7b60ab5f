package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

// ExtractInput is the context of an extraction request.
type ExtractInput struct {
	Level   string
	Subject string
	Parent  string
}

// Target names the thing risks are extracted for, including the parent
// project when extracting component risks.
func (in ExtractInput) Target() string {
	parts := make([]string, 0, 3)
	if in.Parent != "" {
		parts = append(parts, in.Parent)
	}
	parts = append(parts, in.Subject)
	if in.Parent != "" {
		parts = append(parts, "project component")
	}
	return strings.Join(parts, " ") + " in automotive industry"
}

// EvaluateInput is the context of an evaluation request.
type EvaluateInput struct {
	Title       string
	Description string
	Level       string
	Subject     string
}

// ComposeInput is the context of a mitigation request.
type ComposeInput struct {
	Title       string
	Description string
	Level       string
	Subject     string
	Probability float64
	CostImpact  int64
	TimeImpact  int64
}

var templates = func() map[Stage]*template.Template {
	m := make(map[Stage]*template.Template, len(stages))
	for _, stage := range stages {
		m[stage] = template.Must(template.New(string(stage)).Parse(instructions[stage]))
	}
	return m
}()

// Extract builds the extraction prompt.
func Extract(in ExtractInput) (string, error) {
	return render(StageExtract, in)
}

// Evaluate builds the evaluation prompt.
func Evaluate(in EvaluateInput) (string, error) {
	return render(StageEvaluate, in)
}

// Compose builds the mitigation prompt.
func Compose(in ComposeInput) (string, error) {
	return render(StageCompose, in)
}

func render(stage Stage, data any) (string, error) {
	tmpl, ok := templates[stage]
	if !ok {
		return "", ErrInvalidStage
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, stage, err)
	}

	b.WriteString("\n\n")
	b.WriteString(specs[stage])
	return b.String(), nil
}
