// Package ffmpeg wraps the ffmpeg/ffprobe binaries for audio cutting,
// background card generation and vertical video composition.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/podbot/podclip/internal/ports"
)

const (
	frameWidth  = 1080
	frameHeight = 1920
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// CutAudio copies the [start, end) span of the source audio without
// re-encoding.
func (a *Adapter) CutAudio(ctx context.Context, srcPath string, start, end float64, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", srcPath,
		"-c", "copy",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg cut audio: %v\n%s", ports.ErrMediaCut, err, string(b))
	}
	return nil
}

// MakeBackground renders a single 1080x1920 card with the wrapped clip
// title over a dark base color.
func (a *Adapter) MakeBackground(ctx context.Context, title, outPath string) error {
	drawtext := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=72:line_spacing=24:x=(w-text_w)/2:y=400",
		escapeDrawText(wrapTitle(title, 20)),
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=0x141428:s=%dx%d", frameWidth, frameHeight),
		"-vf", drawtext,
		"-frames:v", "1",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg background: %v\n%s", ports.ErrRender, err, string(b))
	}
	return nil
}

// ComposeVideo loops the background image under the clip audio, burns the
// subtitles in and forces the output duration to targetDuration so the
// visual track can never run past the audio.
func (a *Adapter) ComposeVideo(ctx context.Context, audioPath, imagePath, srtPath string, targetDuration float64, outPath string) error {
	vf := fmt.Sprintf(
		"subtitles=%s:force_style='Alignment=2,Fontsize=24,MarginV=70'",
		escapeFilterPath(srtPath),
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-i", audioPath,
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-t", fmtSeconds(targetDuration),
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg compose: %v\n%s", ports.ErrRender, err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe duration: %v\n%s", ports.ErrRender, err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse duration %q: %v", ports.ErrRender, s, err)
	}
	return sec, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// wrapTitle inserts line breaks so long titles stay inside the card.
func wrapTitle(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len([]rune(cur))+1+len([]rune(w)) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	lines = append(lines, cur)
	return strings.Join(lines, "\n")
}

func escapeDrawText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, ":", "\\:")
	s = strings.ReplaceAll(s, "%", "\\%")
	return s
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
