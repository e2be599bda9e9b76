// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// Package translation wraps the external machine translation API. Each
// call makes exactly one outbound request; retry policy belongs to the
// caller. Failures are reported as *GatewayError so callers can branch on
// the error kind.
package translation

import (
	"context"
	"errors"
	"fmt"

	"lancasterhub/internal/textdir"
)

// Gateway is the translation surface the rest of the system depends on.
type Gateway interface {
	// TranslateText translates a single text into target. source may be
	// empty to let the remote service detect it.
	TranslateText(ctx context.Context, text, target, source string) (Result, error)

	// TranslateBatch translates texts in one call. The results have the same
	// length and order as texts.
	TranslateBatch(ctx context.Context, texts []string, target, source string) ([]Result, error)

	// DetectLanguage identifies the language of text.
	DetectLanguage(ctx context.Context, text string) (Detection, error)

	// Enabled reports whether the gateway can reach a real backend.
	Enabled() bool
}

// Result is one translated text.
type Result struct {
	TranslatedText string            `json:"translated_text"`
	SourceLanguage string            `json:"source_language"`
	TargetLanguage string            `json:"target_language"`
	TextDirection  textdir.Direction `json:"text_direction"`
	Confidence     float64           `json:"confidence"`
}

// Detection is the outcome of language detection.
type Detection struct {
	Language      string            `json:"language"`
	Confidence    float64           `json:"confidence"`
	IsRTL         bool              `json:"is_rtl"`
	TextDirection textdir.Direction `json:"text_direction"`
}

// ErrorKind classifies gateway failures.
type ErrorKind string

const (
	KindNetwork         ErrorKind = "network"
	KindRateLimited     ErrorKind = "rate_limited"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindUnauthorized    ErrorKind = "unauthorized"
)

// GatewayError is returned by every failing Gateway call.
type GatewayError struct {
	Kind   ErrorKind
	Op     string // "translate" or "detect"
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("translation %s: %s (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("translation %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind carried by err, or "" when err is not a
// *GatewayError.
func KindOf(err error) ErrorKind {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// ErrNotConfigured is wrapped by the Disabled gateway.
var ErrNotConfigured = errors.New("translation API key not configured")

// Disabled is the Gateway used when no API key is configured. Every call
// fails with KindUnauthorized.
type Disabled struct{}

func (Disabled) TranslateText(context.Context, string, string, string) (Result, error) {
	return Result{}, &GatewayError{Kind: KindUnauthorized, Op: "translate", Err: ErrNotConfigured}
}

func (Disabled) TranslateBatch(context.Context, []string, string, string) ([]Result, error) {
	return nil, &GatewayError{Kind: KindUnauthorized, Op: "translate", Err: ErrNotConfigured}
}

func (Disabled) DetectLanguage(context.Context, string) (Detection, error) {
	return Detection{}, &GatewayError{Kind: KindUnauthorized, Op: "detect", Err: ErrNotConfigured}
}

func (Disabled) Enabled() bool { return false }
