// Package transcript holds the ordered segment index built once per run
// from the transcriber output.
package transcript

import (
	"errors"
	"fmt"

	"github.com/podbot/podclip/internal/types"
)

var ErrInvalidRange = errors.New("invalid range")

// Index is a read-only view over the transcript segments of one source
// video. Segments are assumed already time-ordered; the index never
// re-sorts, so slices over unsorted input are undefined.
type Index struct {
	segments []types.Segment
}

func NewIndex(segments []types.Segment) *Index {
	return &Index{segments: segments}
}

func (x *Index) Len() int { return len(x.segments) }

// RenderCues converts every segment into a subtitle cue with 1-based
// contiguous numbering and no filtering, shifting times by offset. Used for
// the whole-transcript subtitle document.
func (x *Index) RenderCues(offset float64) []types.Cue {
	cues := make([]types.Cue, 0, len(x.segments))
	for i, s := range x.segments {
		cues = append(cues, types.Cue{
			Index: i + 1,
			Start: s.Start + offset,
			End:   s.End + offset,
			Text:  s.Text,
		})
	}
	return cues
}

// Slice returns clip-local cues for the window [t0, t1). A segment is
// included iff it overlaps the window (end > t0 and start < t1); its times
// are shifted by -t0 and clamped into [0, t1-t0]. Cues are renumbered from 1.
func (x *Index) Slice(t0, t1 float64) ([]types.Cue, error) {
	if t1 <= t0 {
		return nil, fmt.Errorf("%w: [%.3f, %.3f)", ErrInvalidRange, t0, t1)
	}
	window := t1 - t0
	var cues []types.Cue
	for _, s := range x.segments {
		if s.End <= t0 || s.Start >= t1 {
			continue
		}
		start := s.Start - t0
		if start < 0 {
			start = 0
		}
		end := s.End - t0
		if end > window {
			end = window
		}
		cues = append(cues, types.Cue{
			Index: len(cues) + 1,
			Start: start,
			End:   end,
			Text:  s.Text,
		})
	}
	return cues, nil
}
