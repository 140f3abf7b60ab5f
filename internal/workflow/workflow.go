package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/JaimeStill/riskline/internal/risks"
)

// Execute runs the assessment workflow over h. It builds the state graph
// (extract → evaluate? → compose? → finalize), executes it on the caller's
// goroutine, and extracts the Result from the final state. Stage failures
// fall back inside the components; only graph errors are returned.
func Execute(ctx context.Context, rt *Runtime, h hierarchy.Hierarchy) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildGraph, err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyHierarchy, h)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

// Reevaluate evaluates r unconditionally and recomputes its indices.
// With evaluation disabled r is returned unchanged.
func Reevaluate(ctx context.Context, rt *Runtime, r risks.Risk) risks.Risk {
	if !rt.Features.Evaluation {
		return r
	}
	evaluate(ctx, rt, &r)
	return r
}

// Recompose replaces the mitigation plan of r unconditionally.
// With mitigation disabled r is returned unchanged.
func Recompose(ctx context.Context, rt *Runtime, r risks.Risk) risks.Risk {
	if !rt.Features.Mitigation {
		return r
	}
	compose(ctx, rt, &r)
	return r
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("riskline-assessment")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", ExtractNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("evaluate", EvaluateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("compose", ComposeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	needsEvaluate := needsEvaluation(rt)
	needsCompose := needsMitigation(rt)

	// extract → evaluate (when any risk has pending metrics)
	if err := graph.AddEdge("extract", "evaluate", needsEvaluate); err != nil {
		return nil, err
	}

	// extract → compose (nothing to evaluate, plans missing)
	if err := graph.AddEdge("extract", "compose", both(state.Not(needsEvaluate), needsCompose)); err != nil {
		return nil, err
	}

	// extract → finalize (nothing to evaluate or compose)
	if err := graph.AddEdge("extract", "finalize", both(state.Not(needsEvaluate), state.Not(needsCompose))); err != nil {
		return nil, err
	}

	// evaluate → compose (when any plan is missing)
	if err := graph.AddEdge("evaluate", "compose", needsCompose); err != nil {
		return nil, err
	}

	// evaluate → finalize (all plans present)
	if err := graph.AddEdge("evaluate", "finalize", state.Not(needsCompose)); err != nil {
		return nil, err
	}

	// compose → finalize (unconditional)
	if err := graph.AddEdge("compose", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("extract"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*Result, error) {
	as, err := extractAssessState(s)
	if err != nil {
		return nil, err
	}

	found := as.Risks
	if found == nil {
		found = []risks.Risk{}
	}

	return &Result{
		BatchID:     uuid.New(),
		Risks:       found,
		CompletedAt: time.Now(),
	}, nil
}

type predicate = func(s state.State) bool

func needsEvaluation(rt *Runtime) predicate {
	return func(s state.State) bool {
		if !rt.Features.Evaluation {
			return false
		}
		as, err := extractAssessState(s)
		if err != nil {
			return false
		}
		return as.NeedsEvaluation()
	}
}

func needsMitigation(rt *Runtime) predicate {
	return func(s state.State) bool {
		if !rt.Features.Mitigation {
			return false
		}
		as, err := extractAssessState(s)
		if err != nil {
			return false
		}
		return as.NeedsMitigation()
	}
}

func both(a, b predicate) predicate {
	return func(s state.State) bool {
		return a(s) && b(s)
	}
}
