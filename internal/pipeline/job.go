package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "conversation-starters/internal/common/errors"
	"conversation-starters/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobHandler exposes Service as the combined conversation-starters task.
type JobHandler struct {
	service    *Service
	timeout    time.Duration
	errHandler *apperrors.ErrorHandler
}

func NewJobHandler(service *Service, timeout time.Duration) *JobHandler {
	return &JobHandler{
		service:    service,
		timeout:    timeout,
		errHandler: apperrors.NewErrorHandler(service.logger),
	}
}

func (h *JobHandler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	log := h.service.logger.With(map[string]interface{}{
		"taskType":    TaskType,
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	log.Info("processing job", nil)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	env, err := h.run(ctx, []byte(job.Variables))
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(env)
	if err != nil {
		log.Error("Failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		log.Error("Failed to send complete job command", map[string]interface{}{"error": err.Error()})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *JobHandler) run(ctx context.Context, variables []byte) (*ResponseEnvelope, error) {
	if err := h.service.ValidateBody(variables); err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal(variables, &req); err != nil {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err))
	}
	return h.service.Generate(ctx, &req)
}
