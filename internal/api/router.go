package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bishnuhaldar/dealerdesk/internal/directory"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// notify, if non-nil, is called after each successful mutation.
func NewRouter(svc *directory.Service, authEnabled bool, token string, sseHandler http.Handler, notify NotifyFunc) chi.Router {
	h := NewHandler(svc, notify)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Dealers CRUD (in-memory working copy).
	r.Get("/dealers", h.ListDealers)
	r.Post("/dealers", h.CreateDealer)
	r.Get("/dealers/{name}", h.GetDealer)
	r.Put("/dealers/{name}", h.UpdateDealer)
	r.Delete("/dealers/{name}", h.DeleteDealer)

	// Regions.
	r.Get("/regions", h.ListRegions)
	r.Post("/regions", h.CreateRegion)
	r.Delete("/regions/{name}", h.DeleteRegion)

	// Document lifecycle.
	r.Post("/refresh", h.Refresh)
	r.Post("/save", h.Save)
	r.Get("/status", h.Status)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
