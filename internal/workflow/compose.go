package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/riskline/internal/mitigation"
	"github.com/JaimeStill/riskline/internal/risks"
)

// ComposeNode returns a state node that writes a mitigation plan for every
// risk that has none.
func ComposeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAssessState(s)
		if err != nil {
			return s, fmt.Errorf("compose: %w", err)
		}

		composed := 0
		for i := range as.Risks {
			if !as.Risks[i].NeedsMitigation() {
				continue
			}
			compose(ctx, rt, &as.Risks[i])
			composed++
		}

		rt.Logger.InfoContext(
			ctx, "compose node complete",
			"composed", composed,
			"risk_count", len(as.Risks),
		)

		return s.Set(KeyAssessState, *as), nil
	})
}

func compose(ctx context.Context, rt *Runtime, r *risks.Risk) {
	r.MitigationPlan = rt.Composer.Compose(ctx, mitigation.RequestFor(*r))
}
