// internal/workers/conversation/find-overlap/handler.go
package findoverlap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "conversation-starters/internal/common/errors"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/metrics"
	"conversation-starters/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "find-overlap"

type Handler struct {
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(v *validation.Validator, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		validator:  v,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx := context.Background()

	if h.validator != nil {
		if res := h.validator.ValidateInput(TaskType, []byte(job.Variables)); !res.Valid {
			h.failJob(ctx, client, job, apperrors.NewInvalidRequestError(res.Error()))
			return
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	common := FindOverlap(input.YourInterests, input.TheirInterests)
	h.logger.Debug("overlap computed", map[string]interface{}{
		"yours":  len(input.YourInterests),
		"theirs": len(input.TheirInterests),
		"common": len(common),
	})
	return &Output{CommonInterests: common}, nil
}

// FindOverlap keeps each token of yours that contains, or is contained
// in, some token of theirs, ignoring case. Order follows yours and
// duplicates are kept.
func FindOverlap(yours, theirs []string) []string {
	lowered := make([]string, len(theirs))
	for i, t := range theirs {
		lowered[i] = strings.ToLower(t)
	}

	common := make([]string, 0, len(yours))
	for _, y := range yours {
		ly := strings.ToLower(y)
		for _, lt := range lowered {
			if strings.Contains(lt, ly) || strings.Contains(ly, lt) {
				common = append(common, y)
				break
			}
		}
	}
	return common
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}
