package ports

import "github.com/aretw0/algoviz/pkg/domain"

// Renderer is a pure observer of a run. It must not retain the events it receives.
type Renderer interface {
	RenderStep(ev domain.StepEvent)
	RenderResult(res domain.RunResult)
}

// StartRenderer is implemented by renderers that need the subject of each run before
// its first step.
type StartRenderer interface {
	RenderStart(ev domain.RunEvent)
}
