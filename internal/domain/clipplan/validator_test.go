package clipplan

import (
	"testing"

	"github.com/podbot/podclip/internal/types"
)

func TestValidate_WellFormedRecord(t *testing.T) {
	plans, rejected := Validate([]map[string]any{{
		"start_time": "00:01:00",
		"end_time":   "00:01:30",
		"title":      "Funny bit",
	}})
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
	p := plans[0]
	if p.Start != 60 || p.End != 90 {
		t.Fatalf("unexpected bounds: %+v", p)
	}
	if p.Title != "Funny bit" {
		t.Fatalf("unexpected title: %q", p.Title)
	}
	if p.ViralityScore != 0 {
		t.Fatalf("expected defaulted score 0, got %v", p.ViralityScore)
	}
	if p.Category != types.CategoryOther {
		t.Fatalf("expected category other, got %q", p.Category)
	}
}

func TestValidate_RejectionReasons(t *testing.T) {
	tests := []struct {
		name   string
		rec    map[string]any
		reason string
	}{
		{
			name:   "missing end",
			rec:    map[string]any{"start_time": "00:00:10"},
			reason: types.RejectMissingTimestamp,
		},
		{
			name:   "unparseable start",
			rec:    map[string]any{"start_time": "garbage", "end_time": "00:00:30"},
			reason: types.RejectMissingTimestamp,
		},
		{
			name:   "end before start",
			rec:    map[string]any{"start": "00:00:10", "end": "00:00:05"},
			reason: types.RejectNonPositiveDuration,
		},
		{
			name:   "zero duration",
			rec:    map[string]any{"start": 15.0, "end": 15.0},
			reason: types.RejectNonPositiveDuration,
		},
		{
			name:   "negative start",
			rec:    map[string]any{"start": -5.0, "end": 10.0},
			reason: types.RejectMissingTimestamp,
		},
		{
			name:   "negative start string",
			rec:    map[string]any{"start_time": "-5", "end_time": "00:00:10"},
			reason: types.RejectMissingTimestamp,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, rejected := Validate([]map[string]any{tt.rec})
			if len(plans) != 0 || len(rejected) != 1 {
				t.Fatalf("expected 1 rejection, got plans=%d rejected=%d", len(plans), len(rejected))
			}
			if rejected[0].Reason != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, rejected[0].Reason)
			}
		})
	}
}

func TestValidate_Totality(t *testing.T) {
	raw := []map[string]any{
		nil,
		{},
		{"start_time": true, "end_time": []int{1}},
		{"start": "00:00:01", "end": "00:00:31", "virality_score": "not-a-number"},
		{"start": 10.0, "end": 5.0},
		{"start_time": "00:02:00", "end_time": "00:02:45", "category": "humor", "virality_score": 0.8},
	}
	plans, rejected := Validate(raw)
	if len(plans)+len(rejected) != len(raw) {
		t.Fatalf("totality violated: %d + %d != %d", len(plans), len(rejected), len(raw))
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 valid plans, got %d", len(plans))
	}
	if plans[1].Category != types.CategoryHumor || plans[1].ViralityScore != 0.8 {
		t.Fatalf("unexpected plan: %+v", plans[1])
	}
	// Original ordering is preserved through validation.
	if plans[0].Index != 3 || plans[1].Index != 5 {
		t.Fatalf("unexpected plan indices: %d, %d", plans[0].Index, plans[1].Index)
	}
}

func TestValidate_DefaultsAndClamps(t *testing.T) {
	plans, _ := Validate([]map[string]any{
		{"start": 0.0, "end": 30.0, "virality_score": 1.5},
		{"start": 0.0, "end": 30.0, "virality_score": -0.3},
		{"start": 0.0, "end": 30.0, "title": "   ", "category": "viral-gold"},
	})
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	if plans[0].ViralityScore != 1 {
		t.Fatalf("expected clamp to 1, got %v", plans[0].ViralityScore)
	}
	if plans[1].ViralityScore != 0 {
		t.Fatalf("expected clamp to 0, got %v", plans[1].ViralityScore)
	}
	if plans[2].Title != "Clip 3" {
		t.Fatalf("expected defaulted title, got %q", plans[2].Title)
	}
	if plans[2].Category != types.CategoryOther {
		t.Fatalf("expected category other, got %q", plans[2].Category)
	}
}
