package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bishnuhaldar/dealerdesk/internal/apperr"
	"github.com/bishnuhaldar/dealerdesk/internal/directory"
)

// NotifyFunc is called after a successful mutation, with the event kind and
// the affected entity name. May be nil.
type NotifyFunc func(kind, name string)

// Handler holds API route handlers.
type Handler struct {
	svc    *directory.Service
	notify NotifyFunc
}

// NewHandler creates a new Handler. notify may be nil.
func NewHandler(svc *directory.Service, notify NotifyFunc) *Handler {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Handler{svc: svc, notify: notify}
}

// entityName extracts the {name} URL parameter, decoding percent escapes so
// clients can address names containing spaces or glyphs.
func entityName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeErr maps service errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrTargetNotFound):
		// The remote page no longer carries the expected fragments; writing
		// through would corrupt it.
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	default:
		slog.Error(action+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListDealers handles GET /dealers.
//
//	@Summary		List dealers in the working copy
//	@Tags			dealers
//	@Produce		json
//	@Success		200	{object}	DealerListResponse
//	@Security		BearerAuth
//	@Router			/dealers [get]
func (h *Handler) ListDealers(w http.ResponseWriter, _ *http.Request) {
	dealers := h.svc.Dealers()
	writeJSON(w, http.StatusOK, DealerListResponse{Dealers: dealers, Total: len(dealers)})
}

// GetDealer handles GET /dealers/{name}.
//
//	@Summary		Get a single dealer by name
//	@Tags			dealers
//	@Produce		json
//	@Param			name	path		string	true	"Dealer name"
//	@Success		200		{object}	models.Dealer
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dealers/{name} [get]
func (h *Handler) GetDealer(w http.ResponseWriter, r *http.Request) {
	name := entityName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	d, err := h.svc.Dealer(name)
	if err != nil {
		writeErr(w, err, "get dealer")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateDealer handles POST /dealers.
//
//	@Summary		Add a dealer to the working copy
//	@Tags			dealers
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DealerRequest	true	"Dealer to add"
//	@Success		201		{object}	models.Dealer
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dealers [post]
func (h *Handler) CreateDealer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req DealerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.AddDealer(req.Dealer()); err != nil {
		writeErr(w, err, "create dealer")
		return
	}
	created := strings.TrimSpace(req.Name)
	h.notify("dealer.created", created)
	d, err := h.svc.Dealer(created)
	if err != nil {
		writeErr(w, err, "create dealer")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDealer handles PUT /dealers/{name}.
//
//	@Summary		Replace a dealer in the working copy
//	@Tags			dealers
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string			true	"Current dealer name"
//	@Param			body	body		DealerRequest	true	"Replacement dealer"
//	@Success		200		{object}	models.Dealer
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dealers/{name} [put]
func (h *Handler) UpdateDealer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	name := entityName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	var req DealerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.UpdateDealer(name, req.Dealer()); err != nil {
		writeErr(w, err, "update dealer")
		return
	}
	updated := strings.TrimSpace(req.Name)
	h.notify("dealer.updated", updated)
	d, err := h.svc.Dealer(updated)
	if err != nil {
		writeErr(w, err, "update dealer")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDealer handles DELETE /dealers/{name}.
//
//	@Summary		Remove a dealer from the working copy
//	@Tags			dealers
//	@Param			name	path	string	true	"Dealer name"
//	@Success		204		"Dealer removed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dealers/{name} [delete]
func (h *Handler) DeleteDealer(w http.ResponseWriter, r *http.Request) {
	name := entityName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.svc.DeleteDealer(name); err != nil {
		writeErr(w, err, "delete dealer")
		return
	}
	h.notify("dealer.deleted", name)
	w.WriteHeader(http.StatusNoContent)
}

// ListRegions handles GET /regions.
//
//	@Summary		List region labels in the working copy
//	@Tags			regions
//	@Produce		json
//	@Success		200	{object}	RegionListResponse
//	@Security		BearerAuth
//	@Router			/regions [get]
func (h *Handler) ListRegions(w http.ResponseWriter, _ *http.Request) {
	regions := h.svc.Regions()
	writeJSON(w, http.StatusOK, RegionListResponse{Regions: regions, Total: len(regions)})
}

// CreateRegion handles POST /regions.
//
//	@Summary		Add a region label
//	@Tags			regions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RegionRequest	true	"Region to add"
//	@Success		201		{object}	RegionListResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/regions [post]
func (h *Handler) CreateRegion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.AddRegion(req.Name); err != nil {
		writeErr(w, err, "create region")
		return
	}
	h.notify("region.added", req.Name)
	regions := h.svc.Regions()
	writeJSON(w, http.StatusCreated, RegionListResponse{Regions: regions, Total: len(regions)})
}

// DeleteRegion handles DELETE /regions/{name}.
//
//	@Summary		Remove a region label
//	@Tags			regions
//	@Param			name	path	string	true	"Region label"
//	@Success		204		"Region removed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/regions/{name} [delete]
func (h *Handler) DeleteRegion(w http.ResponseWriter, r *http.Request) {
	name := entityName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.svc.DeleteRegion(name); err != nil {
		writeErr(w, err, "delete region")
		return
	}
	h.notify("region.removed", name)
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /refresh: replace the working copy from the remote page.
//
//	@Summary		Reload the working copy from the repository
//	@Tags			document
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Refresh(r.Context())
	if err != nil {
		slog.Error("refresh failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	h.notify("document.refreshed", st.SHA)
	writeJSON(w, http.StatusOK, st)
}

// Save handles POST /save: commit the working copy back to the repository.
// An optional If-Match header pins the save to a specific working-copy
// checksum (as reported by /status).
//
//	@Summary		Commit the working copy with optimistic concurrency
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			If-Match	header	string		false	"Working-copy checksum"
//	@Param			body		body	SaveRequest	false	"Commit message"
//	@Success		200		{object}	StatusResponse
//	@Failure		409		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/save [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SaveRequest
	if r.Body != nil {
		// Body is optional; ignore decode errors from an empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	st, err := h.svc.Save(r.Context(), req.Message, ifMatch)
	if err != nil {
		writeErr(w, err, "save")
		return
	}
	h.notify("document.saved", st.SHA)
	writeJSON(w, http.StatusOK, st)
}

// Status handles GET /status.
//
//	@Summary		Session status: version token, checksum, counts, dirty flag
//	@Tags			document
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Security		BearerAuth
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}
