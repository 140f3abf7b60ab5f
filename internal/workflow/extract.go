package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/JaimeStill/riskline/internal/risks"
)

// ExtractNode returns a state node that walks the hierarchy depth-first and
// collects the extracted risks for every range, project and component.
// With extraction disabled the node produces no risks.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		h, err := extractHierarchy(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		as := AssessmentState{Risks: []risks.Risk{}}
		if rt.Features.Extraction {
			as.Risks = walk(ctx, rt, h)
		}

		rt.Logger.InfoContext(
			ctx, "extract node complete",
			"ranges", len(h.Ranges),
			"risk_count", len(as.Risks),
		)

		return s.Set(KeyAssessState, as), nil
	})
}

func walk(ctx context.Context, rt *Runtime, h hierarchy.Hierarchy) []risks.Risk {
	found := []risks.Risk{}
	for _, r := range h.Ranges {
		found = append(found, rt.Extractor.Extract(ctx, risks.LevelStrategic, r.DisplayName(), "")...)

		for _, p := range r.Projects {
			project := p.DisplayName()
			found = append(found, rt.Extractor.Extract(ctx, risks.LevelProject, project, "")...)

			for _, c := range p.Components {
				found = append(found, rt.Extractor.Extract(ctx, risks.LevelOperational, c.DisplayName(), project)...)
			}
		}
	}
	return found
}

func extractHierarchy(s state.State) (hierarchy.Hierarchy, error) {
	val, ok := s.Get(KeyHierarchy)
	if !ok {
		return hierarchy.Hierarchy{}, fmt.Errorf("%w: missing %s in state", ErrMissingState, KeyHierarchy)
	}

	h, ok := val.(hierarchy.Hierarchy)
	if !ok {
		return hierarchy.Hierarchy{}, fmt.Errorf("%w: %s is not hierarchy.Hierarchy", ErrMissingState, KeyHierarchy)
	}
	return h, nil
}

func extractAssessState(s state.State) (*AssessmentState, error) {
	val, ok := s.Get(KeyAssessState)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrMissingState, KeyAssessState)
	}

	as, ok := val.(AssessmentState)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not AssessmentState", ErrMissingState, KeyAssessState)
	}

	as.Risks = append([]risks.Risk(nil), as.Risks...)
	return &as, nil
}
