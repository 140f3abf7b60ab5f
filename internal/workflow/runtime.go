package workflow

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/riskline/internal/mitigation"
	"github.com/JaimeStill/riskline/internal/risks"
)

// Extractor identifies candidate risks for one subject.
type Extractor interface {
	Extract(ctx context.Context, level risks.Level, subject, parent string) []risks.Risk
}

// Evaluator estimates the numeric fields of one risk.
type Evaluator interface {
	Evaluate(ctx context.Context, title, description string, level risks.Level, subject string) risks.Evaluation
}

// Composer writes the mitigation plan of one risk.
type Composer interface {
	Compose(ctx context.Context, req mitigation.Request) string
}

// Features toggles the three pipeline stages.
type Features struct {
	Extraction bool
	Evaluation bool
	Mitigation bool
}

// AllFeatures enables every stage.
func AllFeatures() Features {
	return Features{Extraction: true, Evaluation: true, Mitigation: true}
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and
// the configured assessment features.
type Runtime struct {
	Extractor Extractor
	Evaluator Evaluator
	Composer  Composer
	Features  Features
	Logger    *slog.Logger
}
