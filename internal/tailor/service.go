package tailor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"tailor-backend/internal/assemble"
	"tailor-backend/internal/keywords"
	"tailor-backend/internal/llm"
	"tailor-backend/internal/normalize"
	"tailor-backend/internal/queue"
	"tailor-backend/internal/rank"
	"tailor-backend/internal/render"
	"tailor-backend/internal/sections"
	"tailor-backend/internal/shared/metrics"
	"tailor-backend/internal/shared/storage/object"
	"tailor-backend/internal/shared/telemetry"
	"tailor-backend/internal/shared/util"
	"tailor-backend/internal/templates"
	"tailor-backend/internal/usage"
)

// maxTopN caps how many keywords a caller may request per job.
const maxTopN = 50

// degradedLetterNotice replaces the cover letter when generation fails.
// The job still completes; the tailored resume is the primary artifact.
const degradedLetterNotice = `Cover letter generation was unavailable for this run.
The tailored resume is included. Please draft the letter from your saved template.`

// TemplateSource is the slice of the templates service the pipeline needs.
type TemplateSource interface {
	Current(ctx context.Context, userID string, kind templates.Kind) (templates.Template, error)
	NormalizedText(ctx context.Context, userID string, kind templates.Kind) (string, error)
}

var _ TemplateSource = (*templates.Service)(nil)

// Service contains business logic for tailor jobs.
type Service struct {
	Repo      Repo
	Usage     *usage.Service
	Templates TemplateSource
	Store     object.ObjectStore
	Generator llm.Client
	Renderer  render.Renderer
	Queue     queue.Enqueuer
	TopN      int
}

// CreateInput is the validated submission payload.
type CreateInput struct {
	JobTitle       string
	Company        string
	JobDescription string
	TopN           int
}

// Create validates the submission, charges quota, persists a queued job
// and hands it to the queue -- or to a background goroutine when no queue
// is configured.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Job, error) {
	if userID == "" {
		return Job{}, errors.New("userID is required")
	}
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.Company = strings.TrimSpace(in.Company)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	if in.JobTitle == "" || in.Company == "" || in.JobDescription == "" {
		return Job{}, errors.New("job_title, company and job_description are required")
	}

	for _, kind := range []templates.Kind{templates.KindResume, templates.KindCoverLetter} {
		if _, err := s.Templates.Current(ctx, userID, kind); err != nil {
			if errors.Is(err, templates.ErrNotFound) {
				return Job{}, &MissingTemplateError{Kind: kind}
			}
			return Job{}, fmt.Errorf("template lookup: %w", err)
		}
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Job{}, err
		}
	}

	topN := in.TopN
	if topN <= 0 {
		topN = s.defaultTopN()
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	now := time.Now().UTC()
	job := Job{
		ID:             uuid.NewString(),
		UserID:         userID,
		JobTitle:       in.JobTitle,
		Company:        in.Company,
		JobDescription: in.JobDescription,
		TopN:           topN,
		Status:         StatusQueued,
		RequestID:      requestIDFromContext(ctx),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}

	metrics.IncJobCreated()
	telemetry.Info("job.created", map[string]any{
		"request_id": job.RequestID,
		"user_id":    userID,
		"job_id":     job.ID,
		"top_n":      topN,
	})

	s.dispatch(ctx, job)
	return job, nil
}

// dispatch sends the job to the queue, falling back to an in-process run
// when no queue is configured or the enqueue fails.
func (s *Service) dispatch(ctx context.Context, job Job) {
	if s.Queue != nil {
		msg := queue.NewMessage(job.ID, job.UserID, job.RequestID, time.Now().UTC())
		err := s.Queue.Enqueue(ctx, msg)
		if err == nil {
			return
		}
		if !errors.Is(err, queue.ErrNotConfigured) {
			telemetry.Error("job.enqueue_failed", map[string]any{
				"request_id": job.RequestID,
				"job_id":     job.ID,
				"error":      sanitizeError(err),
			})
		}
	}
	go s.Process(backgroundWithRequestID(ctx), job.ID)
}

// Get returns a job owned by the user.
func (s *Service) Get(ctx context.Context, userID, jobID string) (Job, error) {
	if jobID == "" {
		return Job{}, errors.New("jobID is required")
	}
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if job.UserID != userID {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// List returns jobs for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenArtifact streams the completed job's zip bundle.
func (s *Service) OpenArtifact(ctx context.Context, userID, jobID string) (Job, io.ReadCloser, error) {
	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		return Job{}, nil, err
	}
	if job.Status != StatusCompleted {
		return Job{}, nil, ErrNotReady
	}
	if job.ArtifactKey == "" {
		return Job{}, nil, ErrNotFound
	}
	reader, err := s.Store.Open(ctx, job.ArtifactKey)
	if err != nil {
		return Job{}, nil, err
	}
	return job, reader, nil
}

// PresignedArtifactURL returns a time-limited download URL when the
// backing store supports it; ErrPresignUnavailable otherwise.
func (s *Service) PresignedArtifactURL(ctx context.Context, userID, jobID string, expires time.Duration) (Job, string, error) {
	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		return Job{}, "", err
	}
	if job.Status != StatusCompleted {
		return Job{}, "", ErrNotReady
	}
	if job.ArtifactKey == "" {
		return Job{}, "", ErrNotFound
	}
	presigner, ok := s.Store.(object.Presigner)
	if !ok {
		return Job{}, "", ErrPresignUnavailable
	}
	url, err := presigner.PresignGet(ctx, job.ArtifactKey, expires)
	if err != nil {
		return Job{}, "", err
	}
	return job, url, nil
}

// Process runs the tailoring pipeline for a queued job. It returns an
// error only when the outcome could not be recorded; completed and failed
// are both successful outcomes from the caller's point of view.
func (s *Service) Process(ctx context.Context, jobID string) (err error) {
	startedAt := time.Now().UTC()
	var job Job

	defer func() {
		if r := recover(); r != nil {
			err = s.failJob(ctx, job, jobID, ErrorCodeInternal, fmt.Errorf("panic: %v", r), startedAt)
		}
	}()

	job, lookupErr := s.Repo.GetByID(ctx, jobID)
	if lookupErr != nil {
		return fmt.Errorf("job lookup id=%s: %w", jobID, lookupErr)
	}
	if job.Terminal() {
		// Redelivered message for a finished job; nothing to do.
		return nil
	}
	if markErr := s.Repo.MarkProcessing(ctx, jobID, startedAt); markErr != nil {
		return fmt.Errorf("mark processing id=%s: %w", jobID, markErr)
	}
	telemetry.Info("job.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           job.UserID,
		"job_id":            job.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})

	if s.Templates == nil || s.Store == nil || s.Generator == nil {
		return s.failJob(ctx, job, jobID, ErrorCodeInternal, errors.New("missing pipeline dependencies"), startedAt)
	}

	resumeText, terr := s.Templates.NormalizedText(ctx, job.UserID, templates.KindResume)
	if terr != nil {
		if errors.Is(terr, templates.ErrNotFound) {
			return s.failJob(ctx, job, jobID, ErrorCodeTemplateMissing, fmt.Errorf("resume template: %w", terr), startedAt)
		}
		return s.failJob(ctx, job, jobID, ErrorCodeStorage, fmt.Errorf("resume template: %w", terr), startedAt)
	}
	if strings.TrimSpace(resumeText) == "" {
		return s.failJob(ctx, job, jobID, ErrorCodeEmptyResume, errors.New("resume template text is empty"), startedAt)
	}
	coverTemplate, terr := s.Templates.NormalizedText(ctx, job.UserID, templates.KindCoverLetter)
	if terr != nil {
		if errors.Is(terr, templates.ErrNotFound) {
			return s.failJob(ctx, job, jobID, ErrorCodeTemplateMissing, fmt.Errorf("cover letter template: %w", terr), startedAt)
		}
		return s.failJob(ctx, job, jobID, ErrorCodeStorage, fmt.Errorf("cover letter template: %w", terr), startedAt)
	}

	jd := normalize.Normalize(job.JobDescription)
	kws := keywords.Extract(keywords.DefaultConfig(), jd, job.TopN)

	parsed := sections.Parse(sections.DefaultConfig(), resumeText)
	ordered := rank.Reorder(parsed, kws)
	if sections.CountItems(ordered) != sections.CountItems(parsed) {
		return s.failJob(ctx, job, jobID, ErrorCodeInternal, errors.New("reorder changed item count"), startedAt)
	}

	letter, degraded, coverStatus, failureReason := s.generateLetter(ctx, job, jd, kws, resumeText, coverTemplate)

	doc := assemble.Assemble(ordered, letter, assemble.Options{
		JobTitle: job.JobTitle,
		Company:  job.Company,
		Keywords: kws,
	})

	resumeBytes, letterBytes, format, renderErr := s.renderDocuments(ctx, job, doc)
	if renderErr != nil {
		return s.failJob(ctx, job, jobID, ErrorCodeRender, renderErr, startedAt)
	}
	metrics.IncRender(format)

	archive, archiveErr := buildArchive(resumeBytes, letterBytes, format, job.CreatedAt)
	if archiveErr != nil {
		return s.failJob(ctx, job, jobID, ErrorCodeInternal, archiveErr, startedAt)
	}

	key := artifactKey(job)
	if _, saveErr := s.Store.SaveWithKey(ctx, key, "application/zip", bytes.NewReader(archive)); saveErr != nil {
		return s.failJob(ctx, job, jobID, ErrorCodeStorage, fmt.Errorf("store artifact: %w", saveErr), startedAt)
	}

	completedAt := time.Now().UTC()
	completion := Completion{
		Keywords:          kws,
		Degraded:          degraded,
		CoverLetterStatus: coverStatus,
		FailureReason:     failureReason,
		ArtifactKey:       key,
		ArtifactFormat:    format,
		CompletedAt:       completedAt,
	}
	if completeErr := s.Repo.Complete(ctx, jobID, completion); completeErr != nil {
		return fmt.Errorf("record completion id=%s: %w", jobID, completeErr)
	}

	metrics.IncJobCompleted()
	if degraded {
		metrics.IncJobDegraded()
	}
	metrics.ObserveJobDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("job.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           job.UserID,
		"job_id":            job.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"degraded":          degraded,
		"artifact_format":   format,
		"duration_ms":       durationMs(startedAt, completedAt),
	})
	return nil
}

// Abandon marks a non-terminal job failed without running the pipeline.
// The worker calls it when a message exhausts its redelivery budget.
func (s *Service) Abandon(ctx context.Context, jobID, reason string) error {
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Terminal() {
		return nil
	}
	startedAt := time.Now().UTC()
	if job.StartedAt != nil {
		startedAt = *job.StartedAt
	}
	return s.failJob(ctx, job, jobID, ErrorCodeInternal, errors.New(reason), startedAt)
}

// generateLetter produces the cover letter, degrading instead of failing:
// a generation error yields a notice letter plus the failure kind.
func (s *Service) generateLetter(ctx context.Context, job Job, jd string, kws []keywords.Keyword, resumeText, coverTemplate string) (letter string, degraded bool, coverStatus, failureReason string) {
	prompt := llm.BuildCoverLetterPrompt(llm.PromptInput{
		JobTitle:       job.JobTitle,
		Company:        job.Company,
		JobDescription: jd,
		Keywords:       keywords.Terms(kws),
		ResumeText:     resumeText,
		CoverTemplate:  coverTemplate,
	})

	gen := newRetryingGenerator(s.Generator, job.ID, requestIDFromContext(ctx))
	out, err := gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(out) == "" {
		err = llm.ErrMalformedResponse
	}
	if err != nil {
		kind := llm.FailureKind(err)
		metrics.IncGenerationFailure(kind)
		telemetry.Warn("generation.failed", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"job_id":     job.ID,
			"kind":       kind,
			"error":      sanitizeError(err),
		})
		return degradedLetterNotice, true, CoverUnavailable, kind
	}
	return out, false, CoverGenerated, ""
}

// renderDocuments renders both documents in the configured format. A PDF
// renderer failure downgrades the whole bundle to text so the archive
// never mixes formats; only a text render failure aborts.
func (s *Service) renderDocuments(ctx context.Context, job Job, doc assemble.Document) (resume, letter []byte, format string, err error) {
	r := s.Renderer
	if r == nil {
		r = render.TextRenderer{}
	}
	format = render.FormatText
	if f, ok := r.(render.Format); ok {
		format = f.Format()
	}

	resume, rErr := r.Render(ctx, render.Input{Title: "Tailored Resume", Body: doc.ResumeText})
	var lErr error
	if rErr == nil {
		letter, lErr = r.Render(ctx, render.Input{Title: "Cover Letter", Body: doc.CoverLetterText})
	}
	if rErr == nil && lErr == nil {
		return resume, letter, format, nil
	}

	cause := rErr
	if cause == nil {
		cause = lErr
	}
	if format == render.FormatText {
		return nil, nil, "", cause
	}

	telemetry.Warn("render.fallback", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"job_id":     job.ID,
		"from":       format,
		"error":      sanitizeError(cause),
	})
	text := render.TextRenderer{}
	resume, err = text.Render(ctx, render.Input{Title: "Tailored Resume", Body: doc.ResumeText})
	if err != nil {
		return nil, nil, "", err
	}
	letter, err = text.Render(ctx, render.Input{Title: "Cover Letter", Body: doc.CoverLetterText})
	if err != nil {
		return nil, nil, "", err
	}
	return resume, letter, render.FormatText, nil
}

func (s *Service) failJob(ctx context.Context, job Job, jobID, errorCode string, cause error, startedAt time.Time) error {
	reason := sanitizeError(cause)
	completedAt := time.Now().UTC()
	// Record on a fresh context so a canceled request cannot lose the outcome.
	if updateErr := s.Repo.Fail(context.Background(), jobID, errorCode, reason, completedAt); updateErr != nil {
		return fmt.Errorf("record failure id=%s: %w (cause: %v)", jobID, updateErr, cause)
	}
	metrics.IncJobFailed()
	metrics.ObserveJobDurationMs(durationMs(startedAt, completedAt))
	telemetry.Error("job.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           job.UserID,
		"job_id":            jobID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        errorCode,
		"error":             reason,
		"duration_ms":       durationMs(startedAt, completedAt),
	})
	return nil
}

func (s *Service) defaultTopN() int {
	if s.TopN > 0 {
		return s.TopN
	}
	return keywords.DefaultTopN
}

// artifactKey namespaces artifacts by hashed user so keys never leak the
// raw identity into bucket listings.
func artifactKey(job Job) string {
	return fmt.Sprintf("artifacts/%s/%s/application.zip", util.HashUserKey(job.UserID), job.ID)
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}

// sanitizeError flattens an error to a single line capped at 500 bytes
// before it is persisted or logged.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	return util.Truncate(strings.TrimSpace(msg), 500)
}

// MissingTemplateError reports which template blocks a submission.
type MissingTemplateError struct {
	Kind templates.Kind
}

func (e *MissingTemplateError) Error() string {
	return strings.ReplaceAll(string(e.Kind), "_", " ") + " template not found"
}

func (e *MissingTemplateError) Unwrap() error { return ErrTemplateMissing }
