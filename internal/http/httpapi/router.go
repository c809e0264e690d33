package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"coverserver/internal/http/handlers"
	"coverserver/internal/middleware"
)

// Options tunes the router.
type Options struct {
	CORSAllowedOrigins []string
	Log                zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Log),
		chimw.Recoverer,
		middleware.CORS(opts.CORSAllowedOrigins),
	)

	r.Get("/health", app.Health)
	r.Get("/openapi.json", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)

	r.Post("/generate-cover-image", app.GenerateLegacy)
	r.Post("/generate-cover-image-with-text", app.GenerateWithText)
	r.Post("/generate-cover-image-no-text", app.GenerateNoText)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate-document-cover-image", app.GenerateDocumentCover)
		// Path published by the first release, kept for existing clients.
		r.Post("/generate-dcoument-cover-image", app.GenerateDocumentCover)
	})

	return r
}
