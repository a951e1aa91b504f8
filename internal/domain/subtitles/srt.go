// Package subtitles serializes cues into SubRip text, the subtitle format
// burned into rendered clips and published next to downloaded audio.
package subtitles

import (
	"strconv"
	"strings"

	"github.com/podbot/podclip/internal/domain/timecode"
	"github.com/podbot/podclip/internal/types"
)

// Document renders an ordered cue sequence as an SRT document: one block
// per cue with its 1-based index, a "start --> end" line, the trimmed text
// and a blank separator line. Byte-compatible with common subtitle
// consumers.
func Document(cues []types.Cue) string {
	var b strings.Builder
	for _, c := range cues {
		b.WriteString(strconv.Itoa(c.Index))
		b.WriteByte('\n')
		b.WriteString(timecode.FormatSRT(c.Start))
		b.WriteString(" --> ")
		b.WriteString(timecode.FormatSRT(c.End))
		b.WriteByte('\n')
		b.WriteString(strings.TrimSpace(c.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}
