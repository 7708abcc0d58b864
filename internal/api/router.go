package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/laguz/internal/lexicon"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *lexicon.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Lexicon files CRUD.
	r.Get("/files", h.ListFiles)
	r.Post("/files", h.CreateFile)
	r.Get("/files/*", h.GetFile)
	r.Put("/files/*", h.UpdateFile)
	r.Delete("/files/*", h.DeleteFile)

	// Entry-level queries.
	r.Get("/entries", h.ListEntries)
	r.Get("/lookup", h.Lookup)
	r.Get("/search", h.Search)

	// Cross-reference graph.
	r.Get("/graph", h.Graph)
	r.Get("/backrefs", h.Backrefs)

	// Text operations.
	r.Post("/transform", h.Transform)
	r.Post("/format", h.Format)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
