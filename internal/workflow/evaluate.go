package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/riskline/internal/risks"
)

// EvaluateNode returns a state node that evaluates every risk with a pending
// metric. All four numeric fields are overwritten by the evaluation.
func EvaluateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAssessState(s)
		if err != nil {
			return s, fmt.Errorf("evaluate: %w", err)
		}

		evaluated := 0
		for i := range as.Risks {
			if as.Risks[i].Complete() {
				continue
			}
			evaluate(ctx, rt, &as.Risks[i])
			evaluated++
		}

		rt.Logger.InfoContext(
			ctx, "evaluate node complete",
			"evaluated", evaluated,
			"risk_count", len(as.Risks),
		)

		return s.Set(KeyAssessState, *as), nil
	})
}

func evaluate(ctx context.Context, rt *Runtime, r *risks.Risk) {
	e := rt.Evaluator.Evaluate(ctx, r.Title, r.Description, r.Level, r.Subject)
	r.ApplyEvaluation(e)
}
