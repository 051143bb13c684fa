package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"musespark-backend/internal/config"
	"musespark-backend/internal/metrics"
	"musespark-backend/internal/model"
	"musespark-backend/pkg/logger"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
)

// Operation names used for metrics and logs.
const (
	OpConverse   = "converse"
	OpSynthesize = "synthesize_note"
	OpTranslate  = "translate_note"
	OpSuggest    = "suggest_node"
)

// Generator is the remote generation contract the app core consumes.
type Generator interface {
	Converse(ctx context.Context, history []model.Message, current model.Message, lang model.Language) (string, error)
	SynthesizeNote(ctx context.Context, transcript string, lang model.Language) (*model.InspirationNote, error)
	TranslateNote(ctx context.Context, note model.InspirationNote, lang model.Language) (*model.InspirationNote, error)
	SuggestNode(ctx context.Context, labels, query string, lang model.Language) (string, error)
}

type Options struct {
	Breaker       config.BreakerConfig
	SuggestionTTL time.Duration
	Metrics       *metrics.Metrics
}

// Client runs one compiled eino graph per operation behind a shared
// circuit breaker.
type Client struct {
	converse   compose.Runnable[*converseInput, string]
	synthesize compose.Runnable[*synthesizeInput, *model.InspirationNote]
	translate  compose.Runnable[*translateInput, *model.InspirationNote]
	suggest    compose.Runnable[*suggestInput, string]

	breaker     *gobreaker.CircuitBreaker
	metrics     *metrics.Metrics
	suggestions *cache.Cache
	validate    *validator.Validate
	now         func() time.Time
}

func NewClient(ctx context.Context, cm einoModel.BaseChatModel, opts Options) (*Client, error) {
	c := &Client{
		metrics:  opts.Metrics,
		validate: validator.New(),
		now:      time.Now,
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}

	ttl := opts.SuggestionTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c.suggestions = cache.New(ttl, 2*ttl)
	c.breaker = newBreaker("llm", opts.Breaker, c.metrics)

	var err error
	if c.converse, err = newConverseChain(ctx, cm); err != nil {
		return nil, fmt.Errorf("compile converse graph: %w", err)
	}
	if c.synthesize, err = newSynthesizeChain(ctx, cm); err != nil {
		return nil, fmt.Errorf("compile synthesize graph: %w", err)
	}
	if c.translate, err = newTranslateChain(ctx, cm); err != nil {
		return nil, fmt.Errorf("compile translate graph: %w", err)
	}
	if c.suggest, err = newSuggestChain(ctx, cm); err != nil {
		return nil, fmt.Errorf("compile suggest graph: %w", err)
	}
	return c, nil
}

func newBreaker(name string, cfg config.BreakerConfig, m *metrics.Metrics) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf("Circuit breaker '%s' state changed from %v to %v", name, from, to)
			m.SetBreakerState(name, float64(to))
		},
		IsSuccessful: func(err error) bool {
			// caller cancellation is not a remote failure
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// execute runs fn through the breaker and records the outcome.
func (c *Client) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	out, err := c.breaker.Execute(fn)

	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeError
	}
	c.metrics.ObserveRemoteCall(op, outcome, time.Since(start))
	return out, err
}

func (c *Client) Converse(ctx context.Context, history []model.Message, current model.Message, lang model.Language) (string, error) {
	out, err := c.execute(OpConverse, func() (interface{}, error) {
		return c.converse.Invoke(ctx, &converseInput{History: history, Current: current, Language: lang})
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (c *Client) SynthesizeNote(ctx context.Context, transcript string, lang model.Language) (*model.InspirationNote, error) {
	out, err := c.execute(OpSynthesize, func() (interface{}, error) {
		note, err := c.synthesize.Invoke(ctx, &synthesizeInput{Transcript: transcript, Language: lang})
		if err != nil {
			return nil, err
		}
		if err := c.validate.Struct(note); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return note, nil
	})
	if err != nil {
		return nil, err
	}

	note := out.(*model.InspirationNote)
	note.ID = uuid.New().String()
	note.CreatedAt = c.now()
	return note, nil
}

func (c *Client) TranslateNote(ctx context.Context, note model.InspirationNote, lang model.Language) (*model.InspirationNote, error) {
	out, err := c.execute(OpTranslate, func() (interface{}, error) {
		translated, err := c.translate.Invoke(ctx, &translateInput{Note: note, Language: lang})
		if err != nil {
			return nil, err
		}
		if err := c.validate.Struct(translated); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return translated, nil
	})
	if err != nil {
		return nil, err
	}

	merged := model.MergeTranslation(note, *out.(*model.InspirationNote))
	return &merged, nil
}

// SuggestNode memoizes answers for identical (labels, query, language).
func (c *Client) SuggestNode(ctx context.Context, labels, query string, lang model.Language) (string, error) {
	key := strings.Join([]string{string(lang), labels, query}, "\x00")
	if cached, ok := c.suggestions.Get(key); ok {
		return cached.(string), nil
	}

	out, err := c.execute(OpSuggest, func() (interface{}, error) {
		return c.suggest.Invoke(ctx, &suggestInput{Labels: labels, Query: query, Language: lang})
	})
	if err != nil {
		return "", err
	}

	phrase := out.(string)
	c.suggestions.SetDefault(key, phrase)
	return phrase, nil
}
