package prompts

import "errors"

var (
	ErrInvalidStage = errors.New("stage must be extract, evaluate, or compose")
	ErrRender       = errors.New("prompt render failed")
)
