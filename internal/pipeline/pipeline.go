// Package pipeline chains interest resolution, overlap detection and
// starter generation into one request/response operation.
package pipeline

import (
	"context"
	"time"

	apperrors "conversation-starters/internal/common/errors"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/observability"
	"conversation-starters/internal/common/validation"
	findoverlap "conversation-starters/internal/workers/conversation/find-overlap"
	generatestarters "conversation-starters/internal/workers/conversation/generate-starters"
	resolveinterests "conversation-starters/internal/workers/conversation/resolve-interests"

	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "conversation-starters"

	generationFailedMessage = "Failed to generate conversation starters"
	invalidRequestMessage   = "Invalid request"
)

type Service struct {
	resolver  *resolveinterests.Handler
	overlap   *findoverlap.Handler
	shaper    *generatestarters.Handler
	validator *validation.Validator
	obs       *observability.Observability
	logger    logger.Logger
}

func NewService(
	resolver *resolveinterests.Handler,
	overlap *findoverlap.Handler,
	shaper *generatestarters.Handler,
	v *validation.Validator,
	obs *observability.Observability,
	log logger.Logger,
) *Service {
	return &Service{
		resolver:  resolver,
		overlap:   overlap,
		shaper:    shaper,
		validator: v,
		obs:       obs,
		logger:    log,
	}
}

// ValidateBody checks a raw request body. Missing, blank or non-string
// fields give an INVALID_REQUEST error.
func (s *Service) ValidateBody(body []byte) error {
	if res := s.validator.ValidateInput(TaskType, body); !res.Valid {
		return apperrors.NewInvalidRequestError(res.Error())
	}
	return nil
}

// Generate runs the three stages for req. Only a validation failure or a
// completion failure is returned as an error.
func (s *Service) Generate(ctx context.Context, req *Request) (env *ResponseEnvelope, err error) {
	ctx, span := s.obs.StartSpan(ctx, TaskType)
	defer func() { observability.EndSpan(span, err) }()

	if res := s.validator.ValidateInputObject(TaskType, req); !res.Valid {
		return nil, apperrors.NewInvalidRequestError(res.Error())
	}

	var interests *resolveinterests.Output
	err = s.stage(ctx, resolveinterests.TaskType, func(ctx context.Context) (err error) {
		interests, err = s.resolver.Execute(ctx, &resolveinterests.Input{
			YourInfo:  req.YourInfo,
			TheirInfo: req.TheirInfo,
		})
		return err
	}, attribute.Bool("your_info.url", resolveinterests.IsURL(req.YourInfo)),
		attribute.Bool("their_info.url", resolveinterests.IsURL(req.TheirInfo)))
	if err != nil {
		return nil, err
	}

	var overlap *findoverlap.Output
	err = s.stage(ctx, findoverlap.TaskType, func(ctx context.Context) (err error) {
		overlap, err = s.overlap.Execute(ctx, &findoverlap.Input{
			YourInterests:  interests.YourInterests,
			TheirInterests: interests.TheirInterests,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var starters *generatestarters.Output
	err = s.stage(ctx, generatestarters.TaskType, func(ctx context.Context) (err error) {
		starters, err = s.shaper.Execute(ctx, &generatestarters.Input{
			YourName:        req.YourName,
			TheirName:       req.TheirName,
			Context:         req.Context,
			YourInterests:   interests.YourInterests,
			TheirInterests:  interests.TheirInterests,
			CommonInterests: overlap.CommonInterests,
		})
		return err
	})
	if err != nil {
		return nil, s.shaper.ToStandardError(err)
	}

	return &ResponseEnvelope{
		RawResponse:            starters.RawResponse,
		BasedOnTheirInterests:  nonNil(starters.BasedOnTheirInterests),
		BasedOnCommonInterests: nonNil(starters.BasedOnCommonInterests),
		Metadata: Metadata{
			YourInterests:   nonNil(interests.YourInterests),
			TheirInterests:  nonNil(interests.TheirInterests),
			CommonInterests: nonNil(overlap.CommonInterests),
			Context:         req.Context,
			RawAIResponse:   starters.RawResponse,
		},
	}, nil
}

func (s *Service) stage(ctx context.Context, name string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, name, attrs...)
	err := fn(ctx)
	observability.EndSpan(span, err)

	status := "ok"
	if err != nil {
		status = "error"
	}
	s.obs.RecordStage(ctx, name, status, time.Since(start))
	return err
}

// NewErrorEnvelope renders err for an HTTP response. Invalid requests get
// their own message; everything else is a generation failure.
func NewErrorEnvelope(err error) ErrorEnvelope {
	stdErr := apperrors.Normalize(err)
	msg := generationFailedMessage
	if stdErr.Code == apperrors.ErrCodeInvalidRequest {
		msg = invalidRequestMessage
	}
	details := stdErr.Details
	if details == "" {
		details = stdErr.Message
	}
	return ErrorEnvelope{
		Error:       msg,
		Details:     details,
		RawResponse: stdErr.Error(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
