package subtitles

import (
	"strings"
	"testing"

	"github.com/podbot/podclip/internal/domain/transcript"
	"github.com/podbot/podclip/internal/types"
)

func TestDocument_Format(t *testing.T) {
	cues := []types.Cue{
		{Index: 1, Start: 0, End: 2.5, Text: "  hello world  "},
		{Index: 2, Start: 2.5, End: 61.042, Text: "second cue"},
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:02,500\n" +
		"hello world\n\n" +
		"2\n" +
		"00:00:02,500 --> 00:01:01,042\n" +
		"second cue\n\n"

	if got := Document(cues); got != want {
		t.Fatalf("unexpected document:\n%q\nwant:\n%q", got, want)
	}
}

func TestDocument_Empty(t *testing.T) {
	if got := Document(nil); got != "" {
		t.Fatalf("expected empty document, got %q", got)
	}
}

func TestDocument_SlicedCuesStayInsideClip(t *testing.T) {
	idx := transcript.NewIndex([]types.Segment{
		{Start: 10, End: 20, Text: "one"},
		{Start: 20, End: 32, Text: "two"},
	})
	cues, err := idx.Slice(12, 30)
	if err != nil {
		t.Fatalf("slice: %v", err)
	}

	doc := Document(cues)
	for _, line := range strings.Split(doc, "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		// 18s clip: no timestamp may reach the minute mark.
		if strings.Contains(line, "00:01:") {
			t.Fatalf("cue timestamp outside clip window: %q", line)
		}
	}
	if !strings.Contains(doc, "00:00:00,000 --> 00:00:08,000") {
		t.Fatalf("unexpected first cue line in:\n%s", doc)
	}
	if !strings.Contains(doc, "00:00:08,000 --> 00:00:18,000") {
		t.Fatalf("unexpected second cue line in:\n%s", doc)
	}
}
