package documentshandler

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/documents"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Service *documents.Service
	Audit   *audit.Service
	Perm    func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.Perm(auth.PermDocumentsRead)).Get("/", h.list)
	r.With(h.Perm(auth.PermDocumentsRead)).Get("/{id}", h.get)
	r.With(h.Perm(auth.PermDocumentsRead)).Get("/{id}/download", h.download)
	r.With(h.Perm(auth.PermDocumentsWrite)).Post("/", h.upload)
	r.With(h.Perm(auth.PermDocumentsWrite)).Delete("/{id}", h.remove)
	r.With(h.Perm(auth.PermAuditRead)).Get("/{id}/access-log", h.accessLog)

	return r
}

func (h *Handler) requester(r *http.Request) documents.Requester {
	user, _ := middleware.GetUser(r.Context())
	return h.Service.RequesterFor(r.Context(), user)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.List(r.Context(), h.requester(r), documents.Filter{
		EmployeeID:   r.URL.Query().Get("employeeId"),
		DepartmentID: r.URL.Query().Get("departmentId"),
		AccessLevel:  r.URL.Query().Get("accessLevel"),
	})
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list documents")
		return
	}
	api.Success(w, r, docs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Get(r.Context(), h.requester(r), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, r, http.StatusNotFound, "document not found")
	case errors.Is(err, documents.ErrAccessDenied):
		api.Fail(w, r, http.StatusForbidden, "access denied")
	case err != nil:
		api.Fail(w, r, http.StatusInternalServerError, "failed to load document")
	default:
		api.Success(w, r, doc)
	}
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var body struct {
		EmployeeID   string `json:"employeeId"`
		DepartmentID string `json:"departmentId"`
		Title        string `json:"title"`
		FileName     string `json:"fileName"`
		ContentType  string `json:"contentType"`
		AccessLevel  string `json:"accessLevel"`
		Content      string `json:"content"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var content []byte
	if body.Content != "" {
		decoded, err := base64.StdEncoding.DecodeString(body.Content)
		if err != nil {
			api.Fail(w, r, http.StatusBadRequest, "content must be base64 encoded")
			return
		}
		content = decoded
	}

	result, err := h.Service.Upload(r.Context(), user.UserID, documents.UploadInput{
		EmployeeID:   body.EmployeeID,
		DepartmentID: body.DepartmentID,
		Title:        body.Title,
		FileName:     body.FileName,
		ContentType:  body.ContentType,
		AccessLevel:  body.AccessLevel,
		Content:      content,
	})
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.Audit.Record(r.Context(), user.UserID, "document_uploaded", "document", result.Document.ID, nil)
	api.Created(w, r, result)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Download(r.Context(), h.requester(r), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, r, http.StatusNotFound, "document not found")
		return
	case errors.Is(err, documents.ErrAccessDenied):
		api.Fail(w, r, http.StatusForbidden, "access denied")
		return
	case err != nil:
		api.Fail(w, r, http.StatusInternalServerError, "failed to download document")
		return
	}

	if result.DownloadURL != "" {
		api.Success(w, r, map[string]string{"downloadUrl": result.DownloadURL})
		return
	}

	contentType := result.Document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Document.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.Service.Delete(r.Context(), h.requester(r), id)
	switch {
	case errors.Is(err, documents.ErrAccessDenied):
		api.Fail(w, r, http.StatusForbidden, "access denied")
	case err != nil:
		api.Fail(w, r, http.StatusInternalServerError, "failed to delete document")
	default:
		user, _ := middleware.GetUser(r.Context())
		h.Audit.Record(r.Context(), user.UserID, "document_deleted", "document", id, nil)
		api.NoContent(w, r)
	}
}

func (h *Handler) accessLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.AccessLog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load access log")
		return
	}
	api.Success(w, r, entries)
}
