// Package request holds the per-request context values shared between
// the router middleware and the handler packages.
package request

import (
	"context"
	"net/http"

	"github.com/mwestbrook/signoff/internal/viewer"
)

type contextKey string

const viewerKey contextKey = "viewer"

// WithViewer attaches v to ctx.
func WithViewer(ctx context.Context, v viewer.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// Viewer returns the authenticated viewer for r. The zero viewer means
// the request skipped authentication.
func Viewer(r *http.Request) viewer.Viewer {
	v, _ := r.Context().Value(viewerKey).(viewer.Viewer)
	return v
}
