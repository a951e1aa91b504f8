// Package timecode is the single parsing and formatting choke point for
// timestamps. Every other package resolves raw time values through Parse;
// duplicate parsing logic elsewhere is a defect.
package timecode

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Parse resolves a heterogeneous timestamp value into seconds. Accepted
// forms: raw numbers (float64, int, json.Number), numeric strings, and
// clock strings with 1-3 colon-separated integer fields plus an optional
// fractional-second suffix ("HH:MM:SS.mmm", "MM:SS", "SS"). Missing
// higher-order fields pad as zero, so Parse preserves temporal order.
// Negative values are invalid; no instant in a recording is before zero.
func Parse(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return nonNegative(t)
	case float32:
		return nonNegative(float64(t))
	case int:
		return nonNegative(float64(t))
	case int64:
		return nonNegative(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, t.String())
		}
		return nonNegative(f)
	case string:
		return parseString(t)
	case nil:
		return 0, fmt.Errorf("%w: nil value", ErrInvalidTimestamp)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimestamp, v)
	}
}

func parseString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidTimestamp)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return nonNegative(f)
	}

	base := s
	frac := 0.0
	if i := strings.IndexAny(s, ".,"); i >= 0 {
		fs := s[i+1:]
		if fs == "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		f, err := strconv.ParseFloat("0."+fs, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		base = s[:i]
		frac = f
	}

	parts := strings.Split(base, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	total := 0.0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		total = total*60 + float64(n)
	}
	return total + frac, nil
}

func nonNegative(f float64) (float64, error) {
	if f < 0 {
		return 0, fmt.Errorf("%w: negative seconds %v", ErrInvalidTimestamp, f)
	}
	return f, nil
}

// FormatSRT renders seconds as an SRT timestamp, "HH:MM:SS,mmm", zero
// padded. Milliseconds are truncated toward the literal start, not rounded,
// so a cue never begins after the speech it subtitles.
func FormatSRT(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	totalMS := int64(math.Floor(sec * 1000))
	h := totalMS / 3_600_000
	m := (totalMS % 3_600_000) / 60_000
	s := (totalMS % 60_000) / 1000
	ms := totalMS % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
