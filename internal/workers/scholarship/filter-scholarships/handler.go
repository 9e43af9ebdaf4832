// internal/workers/scholarship/filter-scholarships/handler.go
package filterscholarships

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/common/metrics"
	"scholarship-matcher/internal/common/observability"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "filter-scholarships"
)

var (
	ErrInvalidAsOf = errors.New("asOf must be a YYYY-MM-DD date")
)

type Handler struct {
	config     *Config
	obs        *observability.Observability
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{logger.FieldTaskType: TaskType})
	return &Handler{
		config:     config,
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
	now, err := h.referenceTime(input.AsOf)
	if err != nil {
		return nil, err
	}

	view := input.view()
	if view.SortBy == "" {
		view.SortBy = matching.SortRelevance
	}

	items, err := matching.ApplyView(input.Scholarships, view, now)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("view applied", map[string]interface{}{
		"amount":   view.Amount,
		"deadline": view.Deadline,
		"type":     view.Type,
		"sortBy":   view.SortBy,
		"kept":     len(items),
		"dropped":  len(input.Scholarships) - len(items),
	})

	return &Output{
		Cards:       matching.Cards(items, now),
		Count:       len(items),
		AppliedView: view,
		FilteredOut: len(input.Scholarships) - len(items),
	}, nil
}

func (h *Handler) referenceTime(asOf string) (time.Time, error) {
	if asOf == "" {
		return h.config.Now(), nil
	}
	d, ok := models.ParseDate(asOf)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %w", matching.ErrInvalidInput, ErrInvalidAsOf)
	}
	return d.Time, nil
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
