// Package translate looks up translations from the public Google
// Translate endpoint.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
)

const (
	// DefaultEndpoint is the keyless translate API used by browser extensions
	DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

	op        = "TranslateSentence"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ErrNoTranslation is returned when the response has no translated text
var ErrNoTranslation = errors.New("Failed to extract translation")

// Config controls the translator's endpoint and request pacing
type Config struct {
	Endpoint          string        `yaml:"endpoint"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	MaxAttempts       int           `yaml:"max_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
}

// DefaultConfig returns the production settings
func DefaultConfig() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
		MaxAttempts:       3,
		RetryDelay:        250 * time.Millisecond,
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("translate endpoint must be an absolute http(s) URL, got %q", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("translate timeout must be positive, got %v", c.Timeout)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("translate requests_per_second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.Burst < 1 {
		return fmt.Errorf("translate burst must be at least 1, got %d", c.Burst)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("translate max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

// Translator fetches translations with a shared collector and rate limiter
type Translator struct {
	config    Config
	collector *colly.Collector
	limiter   *rate.Limiter
	logger    logging.Logger
}

// New creates a Translator. Invalid config fields fall back to defaults.
func New(config Config, logger logging.Logger) *Translator {
	defaults := DefaultConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.Burst < 1 {
		config.Burst = defaults.Burst
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(config.Timeout)

	return &Translator{
		config:    config,
		collector: c,
		limiter:   rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		logger:    logger,
	}
}

// Translate converts text from the source language to the target language.
// An empty source language lets the service detect it.
func (t *Translator) Translate(ctx context.Context, text, from, to string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.HandleValidationError(op, "query", text, "nothing to translate")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return "", apperrors.HandleValidationError(op, "to", to, "target language is required")
	}
	from = strings.TrimSpace(from)
	if from == "" {
		from = "auto"
	}

	retry := apperrors.NetworkRetryConfig()
	retry.MaxAttempts = t.config.MaxAttempts
	retry.InitialDelay = t.config.RetryDelay

	var body []byte
	err := apperrors.WithRetryContext(ctx, retry, func() error {
		var ferr error
		body, ferr = t.fetch(ctx, t.requestURL(text, from, to))
		return ferr
	}, op)
	if err != nil {
		logging.LogError(t.logger, err, op, map[string]interface{}{"from": from, "to": to})
		return "", err
	}

	translated, err := extract(body)
	if err != nil {
		logging.LogError(t.logger, err, op, map[string]interface{}{"from": from, "to": to})
		return "", err
	}
	return translated, nil
}

func (t *Translator) requestURL(text, from, to string) string {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", from)
	q.Set("tl", to)
	q.Set("dt", "t")
	q.Set("q", text)
	return t.config.Endpoint + "?" + q.Encode()
}

// fetch performs one paced GET and returns the body
func (t *Translator) fetch(ctx context.Context, target string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, apperrors.New(op, err, apperrors.ErrCodeTimeout)
	}

	var (
		body   []byte
		status int
	)
	c := t.collector.Clone()
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	start := time.Now()
	err := c.Visit(target)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, apperrors.New(op, ctxErr, apperrors.ErrCodeTimeout)
	}
	if err != nil {
		return nil, classifyFetchError(err, status)
	}
	logging.LogOperation(t.logger, "translate request", time.Since(start), map[string]interface{}{"status": status})
	return body, nil
}

// classifyFetchError makes server-side and transport failures retryable
// and client errors final
func classifyFetchError(err error, status int) error {
	ctx := map[string]string{}
	if status > 0 {
		ctx["status"] = strconv.Itoa(status)
	}
	switch {
	case status == http.StatusTooManyRequests || status >= 500 || status == 0:
		return apperrors.NewWithContext(op, fmt.Errorf("translation request failed: %w", err), apperrors.ErrCodeNetwork, ctx)
	default:
		return apperrors.NewWithContext(op, fmt.Errorf("translation request rejected: %w", err), apperrors.ErrCodeValidation, ctx)
	}
}

// extract joins the translated segments found at [0][i][0]
func extract(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apperrors.New(op, ErrNoTranslation, apperrors.ErrCodeParse)
	}

	var b strings.Builder
	for _, segment := range gjson.GetBytes(body, "0").Array() {
		b.WriteString(segment.Get("0").String())
	}
	if b.Len() == 0 {
		return "", apperrors.New(op, ErrNoTranslation, apperrors.ErrCodeParse)
	}
	return b.String(), nil
}
