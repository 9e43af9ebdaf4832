// internal/workers/scholarship/match-scholarships/handler.go
package matchscholarships

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scholarship-matcher/internal/catalog"
	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/common/metrics"
	"scholarship-matcher/internal/common/observability"
	"scholarship-matcher/internal/common/validation"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "match-scholarships"
)

var (
	ErrMissingProfile = errors.New("studentProfile is required")
	ErrInvalidProfile = errors.New("studentProfile failed validation")
	ErrNegativeOffset = errors.New("offset must be a non-negative integer")
)

type Handler struct {
	config     *Config
	source     catalog.Source
	validator  *validation.Validator
	obs        *observability.Observability
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, source catalog.Source, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{logger.FieldTaskType: TaskType})
	return &Handler{
		config:     config,
		source:     source,
		validator:  validator,
		obs:        obs,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, start, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, start, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := h.decodeProfile(input.StudentProfile)
	if err != nil {
		return nil, err
	}
	if input.Offset < 0 {
		return nil, fmt.Errorf("%w: %w", matching.ErrInvalidInput, ErrNegativeOffset)
	}

	ctx, span := observability.StartSpan(ctx, "match-scholarships",
		attribute.Int("offset", input.Offset),
		attribute.String("source", h.source.Name()),
	)

	timer := time.Now()
	page, err := matching.MatchFromSource(ctx, h.source, profile, matching.Options{
		Threshold: h.config.Threshold,
		PageSize:  h.config.PageSize,
		Offset:    input.Offset,
	})
	observability.EndSpan(span, err)
	if err != nil {
		h.obs.RecordMatch(ctx, TaskType, "error")
		return nil, err
	}
	metrics.MatchDuration.Observe(time.Since(timer).Seconds())

	scores := make([]int, len(page.Scholarships))
	for i, s := range page.Scholarships {
		scores[i] = s.MatchScore
	}
	metrics.ObserveScores(scores)
	h.obs.RecordMatch(ctx, TaskType, "ok")

	h.logger.Info("scholarships matched", map[string]interface{}{
		"offset":   input.Offset,
		"returned": len(page.Scholarships),
		"total":    page.Total,
	})

	return &Output{
		Scholarships: page.Scholarships,
		Count:        len(page.Scholarships),
		Total:        page.Total,
		NextOffset:   page.NextOffset,
		HasMore:      page.HasMore,
		Source:       h.source.Name(),
	}, nil
}

func (h *Handler) decodeProfile(raw json.RawMessage) (*models.StudentProfile, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: %w", matching.ErrInvalidInput, ErrMissingProfile)
	}
	if h.validator != nil {
		if res := h.validator.ValidateProfile(raw); !res.Valid {
			return nil, fmt.Errorf("%w: %w: %s", matching.ErrInvalidInput, ErrInvalidProfile, res.Error())
		}
	}
	var profile models.StudentProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", matching.ErrInvalidInput, ErrInvalidProfile, err)
	}
	return &profile, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, err error) {
	code := apperrors.Classify(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
