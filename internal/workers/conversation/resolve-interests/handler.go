// internal/workers/conversation/resolve-interests/handler.go
package resolveinterests

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "conversation-starters/internal/common/errors"
	apphttp "conversation-starters/internal/common/http"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/metrics"
	"conversation-starters/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "resolve-interests"

	cacheKeyPrefix = "interests:url:"
	maxKeywordLen  = 19
)

var (
	urlPattern     = regexp.MustCompile(`^https?://`)
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	spacePattern   = regexp.MustCompile(`\s+`)
	keywordPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z]{2,}\b`)
)

type Handler struct {
	config     *Config
	fetcher    *apphttp.Client
	redis      *redis.Client
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the resolver. redisClient and v may be nil, which
// disables the keyword cache and job variable validation respectively.
func NewHandler(config *Config, redisClient *redis.Client, v *validation.Validator, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		fetcher: apphttp.NewClient(config.FetchTimeout,
			apphttp.WithUserAgent(config.UserAgent),
			apphttp.WithMaxBodyBytes(config.MaxBodyBytes),
		),
		redis:      redisClient,
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

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// Execute resolves both interest fields. It never fails on a fetch error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{
		YourInterests:  h.Resolve(ctx, input.YourInfo),
		TheirInterests: h.Resolve(ctx, input.TheirInfo),
	}, nil
}

// Resolve turns one raw interest field into a token list. A URL is fetched
// and mined for keywords; anything else is split on commas.
func (h *Handler) Resolve(ctx context.Context, field string) []string {
	if IsURL(field) {
		return h.fetchKeywords(ctx, field)
	}
	return SplitCommaList(field)
}

// IsURL reports whether s starts with an http or https scheme.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// SplitCommaList splits on commas, trims each part and drops empty ones.
func SplitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ExtractKeywords pulls capitalized words out of an HTML page, first seen
// first, without duplicates and at most max of them.
func ExtractKeywords(page string, max int) []string {
	text := tagPattern.ReplaceAllString(page, " ")
	text = spacePattern.ReplaceAllString(text, " ")

	seen := make(map[string]struct{})
	keywords := make([]string, 0, max)
	for _, w := range keywordPattern.FindAllString(text, -1) {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if len(w) > maxKeywordLen {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == max {
			break
		}
	}
	return keywords
}

func (h *Handler) fetchKeywords(ctx context.Context, url string) []string {
	key := cacheKey(url)
	if cached, ok := h.cachedKeywords(ctx, key); ok {
		metrics.InterestFetches.WithLabelValues("cache_hit").Inc()
		return cached
	}

	body, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		outcome := "error"
		var statusErr *apphttp.StatusError
		if errors.As(err, &statusErr) {
			outcome = "status"
		}
		metrics.InterestFetches.WithLabelValues(outcome).Inc()
		h.logger.Warn("interest page fetch failed", map[string]interface{}{
			"error": apperrors.NewInterestFetchFailedError(url, err).Details,
		})
		return []string{}
	}
	metrics.InterestFetches.WithLabelValues("success").Inc()

	keywords := ExtractKeywords(string(body), h.config.MaxKeywords)
	h.storeKeywords(ctx, key, keywords)

	h.logger.Debug("extracted keywords", map[string]interface{}{
		"url":      url,
		"keywords": len(keywords),
	})
	return keywords
}

func (h *Handler) cachedKeywords(ctx context.Context, key string) ([]string, bool) {
	if h.redis == nil {
		return nil, false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("keyword cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var keywords []string
	if err := json.Unmarshal([]byte(val), &keywords); err != nil || keywords == nil {
		return nil, false
	}
	return keywords, true
}

func (h *Handler) storeKeywords(ctx context.Context, key string, keywords []string) {
	if h.redis == nil {
		return
	}
	data, _ := json.Marshal(keywords)
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("keyword cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
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
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}
