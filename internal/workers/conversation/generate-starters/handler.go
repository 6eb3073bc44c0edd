// internal/workers/conversation/generate-starters/handler.go
package generatestarters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"conversation-starters/internal/common/completion"
	apperrors "conversation-starters/internal/common/errors"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/metrics"
	"conversation-starters/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-starters"

var (
	ErrLLMTimeout         = errors.New("LLM_TIMEOUT")
	ErrLLMSynthesisFailed = errors.New("LLM_SYNTHESIS_FAILED")
)

var fencePattern = regexp.MustCompile("(?s)^```[A-Za-z]*\\s*(.*?)\\s*```$")

type Handler struct {
	config     *Config
	completer  completion.Completer
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, completer completion.Completer, v *validation.Validator, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		completer:  completer,
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
		h.failJob(ctx, client, job, h.ToStandardError(err))
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

// Execute sends the prompt for input to the completion service and shapes
// the reply. Completion text that is not suggestions JSON is not an error:
// both lists come back empty and the text stays in RawResponse.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	text, err := h.completer.Complete(ctx, BuildPrompt(input))
	if err != nil {
		if errors.Is(err, completion.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrLLMTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrLLMSynthesisFailed, err)
	}

	text = strings.TrimSpace(text)
	output := &Output{
		RawResponse:            text,
		BasedOnTheirInterests:  []string{},
		BasedOnCommonInterests: []string{},
	}

	suggestions, err := h.parseSuggestions(text)
	if err != nil {
		h.logger.Warn("completion text is not suggestions JSON", map[string]interface{}{
			"error": apperrors.NewInvalidLLMResponseError(err.Error()).Details,
		})
		return output, nil
	}

	output.BasedOnTheirInterests = suggestions.BasedOnTheirInterests
	output.BasedOnCommonInterests = suggestions.BasedOnCommonInterests

	h.logger.Info("conversation starters generated", map[string]interface{}{
		"theirCount":  len(output.BasedOnTheirInterests),
		"commonCount": len(output.BasedOnCommonInterests),
	})
	return output, nil
}

// ToStandardError maps an Execute error onto the shared error model.
func (h *Handler) ToStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrLLMTimeout):
		return apperrors.NewLLMTimeoutError(h.config.Timeout)
	case errors.Is(err, ErrLLMSynthesisFailed):
		return apperrors.NewLLMSynthesisFailedError(err)
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) parseSuggestions(text string) (*Suggestions, error) {
	body := StripCodeFence(text)

	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if h.validator != nil {
		if res := h.validator.ValidateCompletion(TaskType, doc); !res.Valid {
			return nil, fmt.Errorf("schema: %s", res.Error())
		}
	}

	var s Suggestions
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if s.BasedOnTheirInterests == nil || s.BasedOnCommonInterests == nil {
		return nil, errors.New("missing suggestion lists")
	}
	return &s, nil
}

// StripCodeFence removes a surrounding Markdown code fence, with or
// without a language tag. Text without a fence is returned trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}
