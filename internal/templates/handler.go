package templates

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/shared/server/middleware"
	"tailor-backend/internal/shared/server/respond"
	"tailor-backend/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB across both files

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/templates", h.upload)
	rg.GET("/templates/current", h.current)
	rg.GET("/templates", h.list)
}

// upload accepts a multipart form with a "resume" file, a "coverLetter"
// file, or both. At least one must be present.
func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form is required", nil)
		return
	}

	fields := []struct {
		field string
		kind  Kind
	}{
		{field: "resume", kind: KindResume},
		{field: "coverLetter", kind: KindCoverLetter},
	}

	uploaded := make(map[string]TemplateResponse)
	for _, f := range fields {
		files := form.File[f.field]
		if len(files) == 0 {
			continue
		}
		tpl, err := h.uploadOne(c, userID, f.kind, files[0])
		if err != nil {
			h.writeUploadError(c, f.field, err)
			return
		}
		c.Set("templateId", tpl.ID)
		uploaded[f.field] = toResponse(tpl)
		telemetry.Info("template.uploaded", map[string]any{
			"template_id": tpl.ID,
			"kind":        string(tpl.Kind),
			"size_bytes":  tpl.SizeBytes,
			"request_id":  c.GetString("requestId"),
		})
	}

	if len(uploaded) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no valid files uploaded", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, uploaded)
}

func (h *Handler) uploadOne(c *gin.Context, userID string, kind Kind, fh *multipart.FileHeader) (Template, error) {
	file, err := fh.Open()
	if err != nil {
		return Template{}, ErrInvalidInput
	}
	defer file.Close()

	return h.Svc.Upload(c.Request.Context(), userID, kind, fh.Filename, fh.Header.Get("Content-Type"), file)
}

func (h *Handler) writeUploadError(c *gin.Context, field string, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedFile):
		respond.Error(c, http.StatusBadRequest, "unsupported_file", "invalid file type for "+field, nil)
	case errors.Is(err, ErrEmptyDocument):
		respond.Error(c, http.StatusBadRequest, "empty_document", "no extractable text in "+field, nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload "+field, nil)
	}
}

// current returns the latest template of each kind, null when absent.
func (h *Handler) current(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resp := gin.H{"resume": nil, "coverLetter": nil}

	if tpl, err := h.Svc.Current(c.Request.Context(), userID, KindResume); err == nil {
		resp["resume"] = toResponse(tpl)
	} else if !errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch templates", nil)
		return
	}

	if tpl, err := h.Svc.Current(c.Request.Context(), userID, KindCoverLetter); err == nil {
		resp["coverLetter"] = toResponse(tpl)
	} else if !errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch templates", nil)
		return
	}

	respond.OK(c, resp)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	tpls, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list templates", nil)
		return
	}

	resp := make([]TemplateResponse, 0, len(tpls))
	for _, tpl := range tpls {
		resp = append(resp, toResponse(tpl))
	}

	respond.OK(c, resp)
}
