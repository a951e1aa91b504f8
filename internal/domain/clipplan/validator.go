// Package clipplan turns the raw, untrusted clip records returned by the
// analysis step into validated plans. The LLM payload is treated as an
// external schema: no field presence or type is trusted, and a malformed
// record is rejected with a reason instead of aborting the batch.
package clipplan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/podbot/podclip/internal/domain/timecode"
	"github.com/podbot/podclip/internal/types"
)

// Accepted key aliases per timestamp field, in lookup order. This is the
// one place alias handling lives.
var (
	startKeys = []string{"start_time", "start"}
	endKeys   = []string{"end_time", "end"}
)

// Validate normalizes each raw record, in original order, into a ClipPlan
// or a RejectedClip. len(plans) + len(rejected) always equals len(raw).
func Validate(raw []map[string]any) ([]types.ClipPlan, []types.RejectedClip) {
	plans := make([]types.ClipPlan, 0, len(raw))
	var rejected []types.RejectedClip

	for i, rec := range raw {
		start, okStart := timestampField(rec, startKeys)
		end, okEnd := timestampField(rec, endKeys)
		if !okStart || !okEnd {
			rejected = append(rejected, types.RejectedClip{Index: i, Reason: types.RejectMissingTimestamp})
			continue
		}
		if end <= start {
			rejected = append(rejected, types.RejectedClip{Index: i, Reason: types.RejectNonPositiveDuration})
			continue
		}

		title := strings.TrimSpace(stringField(rec, "title"))
		if title == "" {
			title = fmt.Sprintf("Clip %d", i+1)
		}

		plans = append(plans, types.ClipPlan{
			Index:         i,
			Start:         start,
			End:           end,
			Title:         title,
			Description:   strings.TrimSpace(stringField(rec, "description")),
			Category:      types.ParseCategory(strings.TrimSpace(stringField(rec, "category"))),
			ViralityScore: scoreField(rec, "virality_score"),
		})
	}
	return plans, rejected
}

func timestampField(rec map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		sec, err := timecode.Parse(v)
		if err != nil {
			// A present but unparseable value counts as missing; the next
			// alias may still carry a usable timestamp.
			continue
		}
		return sec, true
	}
	return 0, false
}

func stringField(rec map[string]any, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

// scoreField reads a virality score, clamped into [0, 1]. Absent or
// non-numeric values default to 0.
func scoreField(rec map[string]any, key string) float64 {
	v, ok := rec[key]
	if !ok || v == nil {
		return 0
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
