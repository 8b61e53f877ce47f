package render

import (
	"github.com/google/uuid"

	"windflow/geometry"
)

// Animator is restarted after every render pass
type Animator interface {
	Restart()
}

// Renderer draws rotated segments onto a surface
type Renderer struct {
	surface   *Surface
	curvature Curvature
	animator  Animator
}

// NewRenderer creates a renderer for the given surface
func NewRenderer(surface *Surface, curvature Curvature, animator Animator) *Renderer {
	return &Renderer{
		surface:   surface,
		curvature: curvature,
		animator:  animator,
	}
}

// Surface returns the surface the renderer draws on
func (r *Renderer) Surface() *Surface { return r.surface }

// Render replaces every streamline on the surface with one path per segment
// and then restarts the animation.
func (r *Renderer) Render(segments []geometry.LineSegment) {
	r.surface.Clear()
	for _, seg := range segments {
		r.surface.AddPath(&StreamlinePath{
			ID:    uuid.NewString(),
			Class: StreamlineClass,
			Path:  BuildPath(seg, r.curvature),
		})
	}
	if r.animator != nil {
		r.animator.Restart()
	}
}
