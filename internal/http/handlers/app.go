package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"

	"github.com/rs/zerolog"

	"coverserver/internal/catalog"
	"coverserver/internal/domain"
	"coverserver/internal/middleware"
	"coverserver/internal/overlay"
	imageprov "coverserver/internal/providers/image"
	"coverserver/internal/providers/prompt"
)

// Renderer composes a caption onto a generated image and persists it.
type Renderer interface {
	Render(ctx context.Context, job overlay.Job) (*overlay.Rendered, error)
}

// PromptComposer writes image prompts for category hierarchies that are not
// in the catalog.
type PromptComposer interface {
	CoverPrompt(ctx context.Context, h prompt.Hierarchy) (string, error)
}

// FileRemover deletes rendered files once they have been served.
type FileRemover interface {
	Remove(path string) error
}

// App carries the collaborators shared by every handler. All fields are
// read-only after construction.
type App struct {
	Catalog  *catalog.Catalog
	Prompts  *imageprov.PromptBuilder
	Images   imageprov.Generator
	Composer PromptComposer
	Overlay  Renderer
	Files    FileRemover
	// Params seeds every image request; width and height are overridden
	// per endpoint.
	Params imageprov.Params
	Canvas image.Point
	Retain bool
	Log    zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (a *App) error(w http.ResponseWriter, code int, detail string) {
	a.json(w, code, errorBody{Detail: detail})
}

// fail logs err with the request context and maps it onto 400 or 500.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, req domain.CoverRequest) {
	evt := a.Log.Error()
	code := http.StatusInternalServerError
	if errors.Is(err, domain.ErrValidation) {
		evt = a.Log.Warn()
		code = http.StatusBadRequest
	}
	evt.Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("title", req.Title).
		Str("category", req.CategoryName).
		Msg("cover request failed")
	a.error(w, code, err.Error())
}

func (a *App) canvas() image.Point {
	if a.Canvas.X > 0 && a.Canvas.Y > 0 {
		return a.Canvas
	}
	return image.Pt(overlay.DefaultWidth, overlay.DefaultHeight)
}
