// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"lancasterhub/internal/textdir"
)

const (
	// DefaultBaseURL is the Google Cloud Translation v2 host.
	DefaultBaseURL = "https://translation.googleapis.com"

	// DefaultTimeout bounds every outbound call, including reading the body.
	DefaultTimeout = 15 * time.Second

	translatePath = "/language/translate/v2"
	detectPath    = "/language/translate/v2/detect"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Config holds the credentials and limits for the Google client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
}

// GoogleClient implements Gateway against the Google Cloud Translation v2
// REST API, authenticated with an API key query parameter.
type GoogleClient struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewGoogleClient creates a client. Missing BaseURL and Timeout fall back
// to the defaults.
func NewGoogleClient(cfg Config) *GoogleClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &GoogleClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// New returns a GoogleClient when an API key is configured and the
// Disabled gateway otherwise.
func New(cfg Config) Gateway {
	if cfg.APIKey == "" {
		return Disabled{}
	}
	return NewGoogleClient(cfg)
}

func (c *GoogleClient) Enabled() bool { return true }

// TranslateText translates one text. The result's direction is classified
// from the translated text and the target language.
func (c *GoogleClient) TranslateText(ctx context.Context, text, target, source string) (Result, error) {
	results, err := c.translate(ctx, []string{text}, target, source)
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// TranslateBatch translates texts in a single request. An empty input
// makes no call.
func (c *GoogleClient) TranslateBatch(ctx context.Context, texts []string, target, source string) ([]Result, error) {
	if len(texts) == 0 {
		return []Result{}, nil
	}
	return c.translate(ctx, texts, target, source)
}

func (c *GoogleClient) translate(ctx context.Context, texts []string, target, source string) ([]Result, error) {
	body := translateRequest{
		Q:      texts,
		Target: target,
		Source: source,
		Format: "text",
	}

	var resp translateResponse
	if err := c.post(ctx, "translate", translatePath, body, &resp); err != nil {
		return nil, err
	}

	got := resp.Data.Translations
	if len(got) == 0 {
		return nil, &GatewayError{Kind: KindInvalidResponse, Op: "translate", Err: errors.New("no translation returned")}
	}
	if len(got) != len(texts) {
		return nil, &GatewayError{
			Kind: KindInvalidResponse,
			Op:   "translate",
			Err:  fmt.Errorf("got %d translations for %d texts", len(got), len(texts)),
		}
	}

	results := make([]Result, len(got))
	for i, tr := range got {
		sourceLang := tr.DetectedSourceLanguage
		if sourceLang == "" {
			sourceLang = source
		}
		if sourceLang == "" {
			sourceLang = "unknown"
		}
		results[i] = Result{
			TranslatedText: tr.TranslatedText,
			SourceLanguage: sourceLang,
			TargetLanguage: target,
			TextDirection:  textdir.Classify(tr.TranslatedText, target),
			Confidence:     1.0,
		}
	}
	return results, nil
}

// DetectLanguage asks the remote service for the most likely language of
// text. An empty detection list is an InvalidResponse error.
func (c *GoogleClient) DetectLanguage(ctx context.Context, text string) (Detection, error) {
	var resp detectResponse
	if err := c.post(ctx, "detect", detectPath, detectRequest{Q: []string{text}}, &resp); err != nil {
		return Detection{}, err
	}

	if len(resp.Data.Detections) == 0 || len(resp.Data.Detections[0]) == 0 {
		return Detection{}, &GatewayError{Kind: KindInvalidResponse, Op: "detect", Err: errors.New("no language detected")}
	}

	d := resp.Data.Detections[0][0]
	if d.Language == "" || d.Language == "und" {
		return Detection{}, &GatewayError{Kind: KindInvalidResponse, Op: "detect", Err: errors.New("detection inconclusive")}
	}

	isRTL := textdir.IsRTLLanguage(d.Language)
	return Detection{
		Language:      d.Language,
		Confidence:    d.Confidence,
		IsRTL:         isRTL,
		TextDirection: textdir.ForLanguage(isRTL),
	}, nil
}

// post performs one JSON POST and decodes a 2xx body into out.
func (c *GoogleClient) post(ctx context.Context, op, path string, payload, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &GatewayError{Kind: KindNetwork, Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	buf, err := json.Marshal(payload)
	if err != nil {
		return &GatewayError{Kind: KindInvalidResponse, Op: op, Err: fmt.Errorf("marshal: %w", err)}
	}

	endpoint := c.config.BaseURL + path + "?key=" + url.QueryEscape(c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return &GatewayError{Kind: KindNetwork, Op: op, Err: fmt.Errorf("request: %w", redactURL(err))}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &GatewayError{Kind: KindNetwork, Op: op, Err: fmt.Errorf("http: %w", redactURL(err))}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &GatewayError{Kind: KindNetwork, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &GatewayError{
			Kind:   kindForStatus(resp.StatusCode),
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("api error: %s", truncate(string(respBody), 200)),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &GatewayError{Kind: KindInvalidResponse, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	return nil
}

// kindForStatus maps a non-2xx HTTP status to an ErrorKind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500, status == http.StatusRequestTimeout:
		return KindNetwork
	}
	return KindInvalidResponse
}

// redactURL strips the request URL (which carries the API key) from
// transport errors.
func redactURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// --- Google Translation v2 wire types ---

type translateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Source string   `json:"source,omitempty"`
	Format string   `json:"format"`
}

type translateResponse struct {
	Data translateData `json:"data"`
}

type translateData struct {
	Translations []translatedText `json:"translations"`
}

type translatedText struct {
	TranslatedText         string `json:"translatedText"`
	DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
}

type detectRequest struct {
	Q []string `json:"q"`
}

type detectResponse struct {
	Data detectData `json:"data"`
}

type detectData struct {
	Detections [][]detection `json:"detections"`
}

type detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}
