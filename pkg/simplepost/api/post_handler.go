package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-post/pkg/simplepost"
)

// Handler exposes the post edit service over HTTP. It is thin plumbing: all
// transform logic lives in the service, and the handler only translates
// request shapes and error taxonomy.
type Handler struct {
	service simplepost.Service
	codec   *simplepost.Codec
	logger  *slog.Logger
}

// NewHandler creates a new post handler. The field registry is needed to
// decode submitted field values back into concrete types.
func NewHandler(service simplepost.Service, fields simplepost.FieldRegistry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		codec:   simplepost.NewCodec(fields),
		logger:  logger,
	}
}

// Routes returns the routes for the post editor
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/archive-map", h.GetArchiveMap)
	r.Get("/archives/{archiveID}/posts", h.GetList)
	r.Post("/archives/{archiveID}/posts/{typeID}", h.CreatePost)
	r.Get("/posts/{id}", h.GetPost)
	r.Put("/posts/{id}", h.SavePost)
	r.Delete("/posts/{id}", h.DeletePost)

	return r
}

// ErrorResponse is the response body for errors
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) GetArchiveMap(w http.ResponseWriter, r *http.Request) {
	siteID, ok := optionalIDParam(w, r, "site")
	if !ok {
		return
	}
	archiveID, ok := optionalIDParam(w, r, "archive")
	if !ok {
		return
	}

	m, err := h.service.GetArchiveMap(r.Context(), siteID, archiveID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if m == nil {
		h.respondNotFound(w, r, "site not found")
		return
	}
	render.JSON(w, r, m)
}

func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	archiveID, err := uuid.Parse(chi.URLParam(r, "archiveID"))
	if err != nil {
		h.respondBadRequest(w, r, "invalid archive id")
		return
	}

	list, err := h.service.GetList(r.Context(), archiveID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondBadRequest(w, r, "invalid post id")
		return
	}
	useDraft := r.URL.Query().Get("draft") != "false"

	model, err := h.service.GetByID(r.Context(), id, useDraft)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if model == nil {
		h.respondNotFound(w, r, "post not found")
		return
	}
	render.JSON(w, r, model)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	archiveID, err := uuid.Parse(chi.URLParam(r, "archiveID"))
	if err != nil {
		h.respondBadRequest(w, r, "invalid archive id")
		return
	}
	typeID := chi.URLParam(r, "typeID")

	model, err := h.service.Create(r.Context(), archiveID, typeID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if model == nil {
		h.respondNotFound(w, r, "post type not found")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, model)
}

func (h *Handler) SavePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondBadRequest(w, r, "invalid post id")
		return
	}
	draft := r.URL.Query().Get("draft") == "true"

	model, err := h.decodeEditModel(r)
	if err != nil {
		h.respondBadRequest(w, r, err.Error())
		return
	}
	model.ID = id

	if err := h.service.Save(r.Context(), model, draft); err != nil {
		h.respondError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondBadRequest(w, r, "invalid post id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// optionalIDParam parses an optional uuid query parameter. It writes a 400
// response and returns ok=false when the parameter is present but malformed.
func optionalIDParam(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid " + name + " id"})
		return nil, false
	}
	return &id, true
}

func (h *Handler) respondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func (h *Handler) respondNotFound(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, simplepost.ErrInvalidPostType),
		errors.Is(err, simplepost.ErrInvalidPublishDate):
		status = http.StatusBadRequest
	case errors.Is(err, simplepost.ErrRegionNotFound),
		errors.Is(err, simplepost.ErrFieldNotFound),
		errors.Is(err, simplepost.ErrUnknownFieldType):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, simplepost.ErrSiteNotFound),
		errors.Is(err, simplepost.ErrArchiveNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
