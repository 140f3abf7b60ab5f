package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// FinalizeNode returns a state node that numbers the batch R1..Rn in
// traversal order and normalizes every record.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAssessState(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		for i := range as.Risks {
			as.Risks[i].ID = batchID(i)
			as.Risks[i].Normalize()
		}

		rt.Logger.InfoContext(ctx, "finalize node complete", "risk_count", len(as.Risks))

		return s.Set(KeyAssessState, *as), nil
	})
}

func batchID(i int) string {
	return fmt.Sprintf("R%d", i+1)
}
