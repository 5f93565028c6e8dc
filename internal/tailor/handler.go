package tailor

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/shared/server/middleware"
	"tailor-backend/internal/shared/server/respond"
	"tailor-backend/internal/usage"
)

const presignExpiry = 15 * time.Minute

// Handler wires HTTP handlers to the tailor service.
type Handler struct {
	Svc  *Service
	poll *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		Svc:  svc,
		poll: newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches tailor-job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tailor-jobs", h.createJob)
	rg.GET("/tailor-jobs", h.listJobs)
	rg.GET("/tailor-jobs/:id", h.getJob)
	rg.GET("/tailor-jobs/:id/download", h.downloadArtifact)
}

type createJobRequest struct {
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
	TopN           int    `json:"top_n"`
}

func (h *Handler) createJob(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	var missing []map[string]string
	for field, value := range map[string]string{
		"job_title":       req.JobTitle,
		"company":         req.Company,
		"job_description": req.JobDescription,
	} {
		if value == "" {
			missing = append(missing, map[string]string{"field": field, "issue": "required"})
		}
	}
	if len(missing) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing required fields", missing)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	job, err := h.Svc.Create(ctx, userID, CreateInput{
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		JobDescription: req.JobDescription,
		TopN:           req.TopN,
	})
	if err != nil {
		var missingTemplate *MissingTemplateError
		switch {
		case errors.As(err, &missingTemplate):
			respond.Error(c, http.StatusConflict, "template_missing", missingTemplate.Error(), gin.H{
				"template": string(missingTemplate.Kind),
			})
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "Daily tailoring limit reached. Try again tomorrow.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create tailor job", nil)
		}
		return
	}

	c.Set("jobId", job.ID)
	respond.Accepted(c, gin.H{
		"id":     job.ID,
		"status": job.Status,
	})
}

func (h *Handler) getJob(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")
	if jobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job id is required", nil)
		return
	}

	if !h.poll.Allow(userID, jobID) {
		c.Header("Retry-After", strconv.Itoa(h.poll.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Polling too fast", gin.H{
			"retryAfterSeconds": h.poll.RetryAfterSeconds(),
		})
		return
	}

	job, err := h.Svc.Get(c.Request.Context(), userID, jobID)
	if err != nil {
		writeJobError(c, err, "failed to fetch tailor job")
		return
	}

	c.Set("jobId", job.ID)
	respond.JSON(c, http.StatusOK, jobPayload(job))
}

func (h *Handler) listJobs(c *gin.Context) {
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

	jobs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list tailor jobs", nil)
		return
	}

	resp := make([]gin.H, 0, len(jobs))
	for _, job := range jobs {
		item := gin.H{
			"id":        job.ID,
			"jobTitle":  job.JobTitle,
			"company":   job.Company,
			"status":    job.Status,
			"createdAt": job.CreatedAt,
		}
		if job.Status == StatusCompleted {
			item["degraded"] = job.Degraded
			item["artifactFormat"] = job.ArtifactFormat
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) downloadArtifact(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")
	if jobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job id is required", nil)
		return
	}

	if c.Query("presign") == "1" {
		job, url, err := h.Svc.PresignedArtifactURL(c.Request.Context(), userID, jobID, presignExpiry)
		if err == nil {
			c.Set("jobId", job.ID)
			respond.JSON(c, http.StatusOK, gin.H{
				"url":      url,
				"fileName": archiveFileName(job.Company, job.JobTitle),
			})
			return
		}
		if !errors.Is(err, ErrPresignUnavailable) {
			writeJobError(c, err, "failed to presign download")
			return
		}
		// Local stores cannot presign; stream instead.
	}

	job, reader, err := h.Svc.OpenArtifact(c.Request.Context(), userID, jobID)
	if err != nil {
		writeJobError(c, err, "failed to open artifact")
		return
	}
	defer reader.Close()

	c.Set("jobId", job.ID)
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveFileName(job.Company, job.JobTitle)))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func writeJobError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "tailor job not found", nil)
	case errors.Is(err, ErrNotReady):
		respond.Error(c, http.StatusConflict, "not_ready", "job has not completed yet", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func jobPayload(job Job) gin.H {
	resp := gin.H{
		"id":        job.ID,
		"jobTitle":  job.JobTitle,
		"company":   job.Company,
		"topN":      job.TopN,
		"status":    job.Status,
		"createdAt": job.CreatedAt,
	}
	if job.StartedAt != nil {
		resp["startedAt"] = job.StartedAt
	}
	if job.CompletedAt != nil {
		resp["completedAt"] = job.CompletedAt
	}
	if len(job.Keywords) > 0 {
		resp["keywords"] = job.Keywords
	}
	if job.Status == StatusCompleted {
		resp["degraded"] = job.Degraded
		resp["coverLetterStatus"] = job.CoverLetterStatus
		resp["artifactFormat"] = job.ArtifactFormat
		if job.Degraded && job.FailureReason != "" {
			resp["failureReason"] = job.FailureReason
		}
	}
	if job.Status == StatusFailed {
		resp["errorCode"] = job.ErrorCode
		resp["failureReason"] = job.FailureReason
	}
	return resp
}
