// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package models

import "lancasterhub/internal/textdir"

// Language is a row of supported_languages. Only enabled languages are
// fan-out targets; disabling one keeps its existing translations.
type Language struct {
	Code          string            `json:"code" yaml:"code"`
	Name          string            `json:"name" yaml:"name"`
	NativeName    string            `json:"native_name" yaml:"native_name"`
	IsRTL         bool              `json:"is_rtl" yaml:"is_rtl"`
	TextDirection textdir.Direction `json:"text_direction" yaml:"-"`
	Enabled       bool              `json:"enabled" yaml:"enabled"`
}

// Direction returns the canonical direction derived from IsRTL.
func (l *Language) Direction() textdir.Direction {
	return textdir.ForLanguage(l.IsRTL)
}
