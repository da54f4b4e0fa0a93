package output

import "context"

// rendererKey is used to store the renderer in a context.
type rendererKey struct{}

// NewContext returns a context carrying the renderer.
func NewContext(ctx context.Context, r *Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// FromContext retrieves the renderer from the context, nil if absent.
func FromContext(ctx context.Context) *Renderer {
	r, _ := ctx.Value(rendererKey{}).(*Renderer)
	return r
}
