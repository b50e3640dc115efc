package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/photosync/photolist/internal/backend"
	"github.com/photosync/photolist/internal/models"
	"github.com/photosync/photolist/internal/observability"
	"github.com/photosync/photolist/internal/services"
)

// ListHandler exposes the photo list cache over HTTP
type ListHandler struct {
	lists    *services.ListService
	validate *validator.Validate
	logger   *observability.Logger
}

// NewListHandler creates a new ListHandler
func NewListHandler(lists *services.ListService) *ListHandler {
	return &ListHandler{
		lists:    lists,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   observability.GetLogger().WithField("component", "list_handler"),
	}
}

// Routes mounts the list endpoints on r
func (h *ListHandler) Routes(r chi.Router) {
	r.Get("/", h.ListLists)
	r.Post("/", h.CreateList)
	r.Get("/active", h.GetActive)
	r.Put("/active", h.SetActive)
	r.Post("/from-collection/{collectionId}", h.LoadFromCollection)
	r.Post("/from-search", h.LoadFromSearch)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetList)
		r.Patch("/", h.RenameList)
		r.Delete("/", h.DeleteList)
		r.Post("/photos", h.AddPhotos)
		r.Put("/photos", h.ReplacePhotos)
		r.Delete("/photos", h.RemovePhotos)
		r.Post("/move", h.MovePhotos)
		r.Post("/copy", h.CopyPhotos)
		r.Post("/save-as-collection", h.SaveAsCollection)
		r.Post("/refresh", h.RefreshFromSource)
		r.Post("/mark-unmodified", h.MarkUnmodified)
	})
}

// ListLists returns every cached list and the active selection
// @Summary List photo lists
// @Description Returns all cached photo lists in insertion order, the active list id and the cache capacity
// @Tags lists
// @Produce json
// @Success 200 {object} models.ListsResponse
// @Security ApiKeyAuth
// @Router /api/lists [get]
func (h *ListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	resp := models.ListsResponse{
		Lists:    h.lists.Lists(),
		Capacity: h.lists.Capacity(),
	}
	if id := h.lists.ActiveID(); id != "" {
		resp.ActiveID = &id
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// CreateList creates an empty list, or one holding the given photos
// @Summary Create a photo list
// @Tags lists
// @Accept json
// @Produce json
// @Param request body models.CreateListRequest false "Optional label and photos"
// @Success 201 {object} models.ListCreatedResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Security ApiKeyAuth
// @Router /api/lists [post]
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req models.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.checkPhotos(w, req.Photos) {
		return
	}

	var id string
	if len(req.Photos) == 0 && req.Label == "" {
		id = h.lists.CreateEmpty(r.Context())
	} else {
		id = h.lists.CreateFromPhotos(r.Context(), req.Photos, req.Label)
	}
	h.respondJSON(w, http.StatusCreated, models.ListCreatedResponse{ID: id})
}

// GetActive returns the active list
// @Summary Get the active photo list
// @Tags lists
// @Produce json
// @Success 200 {object} models.PhotoList
// @Failure 404 {object} models.ErrorResponse "No active list"
// @Security ApiKeyAuth
// @Router /api/lists/active [get]
func (h *ListHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lists.GetActive()
	if !ok {
		h.respondError(w, http.StatusNotFound, "no active photo list")
		return
	}
	h.respondJSON(w, http.StatusOK, l)
}

// SetActive selects the active list; a null id clears it
// @Summary Select the active photo list
// @Tags lists
// @Accept json
// @Param request body models.SetActiveRequest true "List id, or null"
// @Success 204
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/active [put]
func (h *ListHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req models.SetActiveRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := ""
	if req.ID != nil {
		id = *req.ID
	}
	if id != "" {
		if _, ok := h.lists.Get(id); !ok {
			h.respondError(w, http.StatusNotFound, models.ErrListNotFound.Error())
			return
		}
	}
	h.lists.SetActive(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// LoadFromCollection copies a server collection into a new list
// @Summary Create a list from a collection
// @Tags lists
// @Produce json
// @Param collectionId path int true "Collection ID"
// @Success 201 {object} models.ListCreatedResponse
// @Failure 400 {object} models.ErrorResponse "Invalid collection id"
// @Failure 502 {object} models.ErrorResponse "Backend error"
// @Security ApiKeyAuth
// @Router /api/lists/from-collection/{collectionId} [post]
func (h *ListHandler) LoadFromCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, err := strconv.ParseInt(chi.URLParam(r, "collectionId"), 10, 64)
	if err != nil || collectionID <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	id, err := h.lists.LoadFromCollection(r.Context(), collectionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, models.ListCreatedResponse{ID: id})
}

// LoadFromSearch runs a backend search and stores the result as a new list
// @Summary Create a list from a search
// @Tags lists
// @Accept json
// @Produce json
// @Param request body models.LoadFromSearchRequest true "Search criteria"
// @Success 201 {object} models.ListCreatedResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 502 {object} models.ErrorResponse "Backend error"
// @Security ApiKeyAuth
// @Router /api/lists/from-search [post]
func (h *ListHandler) LoadFromSearch(w http.ResponseWriter, r *http.Request) {
	var req models.LoadFromSearchRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.lists.LoadFromSearch(r.Context(), req.Criteria, req.Description)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, models.ListCreatedResponse{ID: id})
}

// GetList returns one list
// @Summary Get a photo list
// @Tags lists
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} models.PhotoList
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id} [get]
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lists.Get(chi.URLParam(r, "id"))
	if !ok {
		h.respondError(w, http.StatusNotFound, models.ErrListNotFound.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, l)
}

// RenameList changes a list label
// @Summary Rename a photo list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body models.RenameListRequest true "New label"
// @Success 200 {object} models.PhotoList
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id} [patch]
func (h *ListHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existing(w, r)
	if !ok {
		return
	}
	var req models.RenameListRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.lists.Rename(r.Context(), id, req.Label); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondList(w, id)
}

// DeleteList removes a list
// @Summary Delete a photo list
// @Tags lists
// @Param id path string true "List ID"
// @Success 204
// @Security ApiKeyAuth
// @Router /api/lists/{id} [delete]
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	h.lists.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// AddPhotos appends photos that are not already in the list
// @Summary Add photos to a list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body models.PhotosRequest true "Photos to add"
// @Success 200 {object} models.PhotoList
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/photos [post]
func (h *ListHandler) AddPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existing(w, r)
	if !ok {
		return
	}
	var req models.PhotosRequest
	if !h.decode(w, r, &req) || !h.checkPhotos(w, req.Photos) {
		return
	}
	h.lists.AddPhotos(r.Context(), id, req.Photos)
	h.respondList(w, id)
}

// ReplacePhotos swaps the list contents
// @Summary Replace the photos of a list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body models.PhotosRequest true "New contents"
// @Success 200 {object} models.PhotoList
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/photos [put]
func (h *ListHandler) ReplacePhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existing(w, r)
	if !ok {
		return
	}
	var req models.PhotosRequest
	if !h.decode(w, r, &req) || !h.checkPhotos(w, req.Photos) {
		return
	}
	h.lists.ReplacePhotos(r.Context(), id, req.Photos)
	h.respondList(w, id)
}

// RemovePhotos drops photos by hothash
// @Summary Remove photos from a list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body models.RemovePhotosRequest true "Hothashes to remove"
// @Success 200 {object} models.PhotoList
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/photos [delete]
func (h *ListHandler) RemovePhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existing(w, r)
	if !ok {
		return
	}
	var req models.RemovePhotosRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.lists.RemovePhotos(r.Context(), id, req.Hothashes)
	h.respondList(w, id)
}

// MovePhotos moves photos to another list
// @Summary Move photos between lists
// @Tags lists
// @Accept json
// @Param id path string true "Source list ID"
// @Param request body models.TransferPhotosRequest true "Target and hothashes"
// @Success 204
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/move [post]
func (h *ListHandler) MovePhotos(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, h.lists.MovePhotos)
}

// CopyPhotos copies photos to another list
// @Summary Copy photos between lists
// @Tags lists
// @Accept json
// @Param id path string true "Source list ID"
// @Param request body models.TransferPhotosRequest true "Target and hothashes"
// @Success 204
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/copy [post]
func (h *ListHandler) CopyPhotos(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, h.lists.CopyPhotos)
}

func (h *ListHandler) transfer(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, fromID, toID string, hothashes []string)) {
	id, ok := h.existing(w, r)
	if !ok {
		return
	}
	var req models.TransferPhotosRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, ok := h.lists.Get(req.ToID); !ok {
		h.respondError(w, http.StatusNotFound, "target photo list not found")
		return
	}
	op(r.Context(), id, req.ToID, req.Hothashes)
	w.WriteHeader(http.StatusNoContent)
}

// SaveAsCollection publishes a list as a new server collection
// @Summary Save a list as a collection
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body models.SaveAsCollectionRequest true "Collection name and description"
// @Success 201 {object} models.SaveAsCollectionResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Failure 502 {object} models.ErrorResponse "Backend error"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/save-as-collection [post]
func (h *ListHandler) SaveAsCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req models.SaveAsCollectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	col, err := h.lists.SaveAsCollection(r.Context(), id, req.Name, req.Description)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	resp := models.SaveAsCollectionResponse{Collection: col}
	if l, ok := h.lists.Get(id); ok {
		resp.List = &l
	}
	h.respondJSON(w, http.StatusCreated, resp)
}

// RefreshFromSource reloads a collection or search list from the backend
// @Summary Refresh a list from its source
// @Tags lists
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} models.PhotoList
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Failure 422 {object} models.ErrorResponse "Source cannot be refreshed"
// @Failure 502 {object} models.ErrorResponse "Backend error"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/refresh [post]
func (h *ListHandler) RefreshFromSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.lists.RefreshFromSource(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondList(w, id)
}

// MarkUnmodified clears the modified flag of a list
// @Summary Mark a list unmodified
// @Tags lists
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} models.PhotoList
// @Failure 404 {object} models.ErrorResponse "List not found"
// @Security ApiKeyAuth
// @Router /api/lists/{id}/mark-unmodified [post]
func (h *ListHandler) MarkUnmodified(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existing(w, r)
	if !ok {
		return
	}
	h.lists.MarkUnmodified(r.Context(), id)
	h.respondList(w, id)
}

// Helper methods

// existing resolves the {id} parameter and answers 404 when the list is gone
func (h *ListHandler) existing(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, ok := h.lists.Get(id); !ok {
		h.respondError(w, http.StatusNotFound, models.ErrListNotFound.Error())
		return "", false
	}
	return id, true
}

func (h *ListHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// checkPhotos rejects blank hothashes the struct tags let through
func (h *ListHandler) checkPhotos(w http.ResponseWriter, photos []models.Photo) bool {
	if err := models.ValidatePhotos(photos); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *ListHandler) respondList(w http.ResponseWriter, id string) {
	l, ok := h.lists.Get(id)
	if !ok {
		// Evicted or deleted concurrently
		h.respondError(w, http.StatusNotFound, models.ErrListNotFound.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, l)
}

func (h *ListHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, models.ErrListNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrListNameRequired), errors.Is(err, models.ErrListLabelRequired):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrSourceNotRefreshable):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &apiErr):
		h.logger.WithContext(r.Context()).Warnf("%s %s: %v", r.Method, r.URL.Path, err)
		h.respondError(w, http.StatusBadGateway, apiErr.Detail)
	default:
		h.logger.WithContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		h.respondError(w, http.StatusBadGateway, "gallery backend unavailable")
	}
}

func (h *ListHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ListHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
