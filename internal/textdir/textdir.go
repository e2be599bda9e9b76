// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// Package textdir decides whether a piece of text renders left-to-right or
// right-to-left. The language code is authoritative when it names a known
// RTL language; otherwise the text itself is scanned for Hebrew and Arabic
// script characters and directional control marks.
package textdir

import (
	"strings"

	"golang.org/x/text/language"
)

// Direction is the rendering direction of a piece of text.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == LTR || d == RTL
}

// rtlLanguages holds the base language codes written right-to-left.
// Populated once at package initialization and never mutated.
var rtlLanguages = map[string]struct{}{
	"ar":  {}, // Arabic
	"he":  {}, // Hebrew
	"iw":  {}, // Hebrew (legacy code)
	"fa":  {}, // Persian
	"ur":  {}, // Urdu
	"yi":  {}, // Yiddish
	"ji":  {}, // Yiddish (legacy code)
	"ps":  {}, // Pashto
	"sd":  {}, // Sindhi
	"ckb": {}, // Central Kurdish
	"dv":  {}, // Dhivehi
	"ug":  {}, // Uyghur
}

// Classify returns the direction of text written in languageCode.
// An empty text in a non-RTL language is LTR.
func Classify(text, languageCode string) Direction {
	if IsRTLLanguage(languageCode) {
		return RTL
	}
	if ContainsRTL(text) {
		return RTL
	}
	return LTR
}

// IsRTLLanguage reports whether the language identified by code is written
// right-to-left. Region and script subtags are ignored ("ar-EG" is Arabic).
func IsRTLLanguage(code string) bool {
	_, ok := rtlLanguages[BaseCode(code)]
	return ok
}

// ForLanguage maps a language's configured is_rtl flag to a Direction.
func ForLanguage(isRTL bool) Direction {
	if isRTL {
		return RTL
	}
	return LTR
}

// ContainsRTL reports whether text contains any character from the Hebrew,
// Arabic, Syriac, Thaana or N'Ko blocks, the Hebrew and Arabic presentation
// forms, or an RTL mark/embedding/override control.
func ContainsRTL(text string) bool {
	for _, r := range text {
		if isRTLRune(r) {
			return true
		}
	}
	return false
}

func isRTLRune(r rune) bool {
	switch {
	case r >= 0x0591 && r <= 0x07FF:
		return true
	case r == 0x200F, r == 0x202B, r == 0x202E:
		return true
	case r >= 0xFB1D && r <= 0xFDFD:
		return true
	case r >= 0xFE70 && r <= 0xFEFC:
		return true
	}
	return false
}

// BaseCode reduces a BCP 47 tag to its lowercase base language subtag.
// Tags the parser rejects are cut at the first '-' or '_'.
func BaseCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if tag, err := language.Parse(code); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	lower := strings.ToLower(code)
	if idx := strings.IndexAny(lower, "-_"); idx >= 0 {
		lower = lower[:idx]
	}
	return lower
}
