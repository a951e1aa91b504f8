// Package ytdlp shells out to yt-dlp to probe and download source audio.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/podbot/podclip/internal/ports"
	"github.com/podbot/podclip/internal/types"
)

type Adapter struct {
	bin         string
	downloadDir string
}

func New(binPath, downloadDir string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath, downloadDir: downloadDir}
}

func (a *Adapter) Info(ctx context.Context, url string) (types.SourceInfo, error) {
	cmd := exec.CommandContext(ctx, a.bin,
		"--no-warnings",
		"--skip-download",
		"--print", "%(id)s\n%(title)s",
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.SourceInfo{}, fmt.Errorf("%w: yt-dlp info: %v\n%s", ports.ErrFetch, err, string(b))
	}
	lines := strings.SplitN(strings.TrimSpace(string(b)), "\n", 2)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return types.SourceInfo{}, fmt.Errorf("%w: yt-dlp info: empty id for %s", ports.ErrFetch, url)
	}
	info := types.SourceInfo{ID: strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		info.Title = strings.TrimSpace(lines[1])
	}
	return info, nil
}

func (a *Adapter) Fetch(ctx context.Context, url string) (string, error) {
	if err := os.MkdirAll(a.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrFetch, err)
	}
	cmd := exec.CommandContext(ctx, a.bin,
		"--no-warnings",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", filepath.Join(a.downloadDir, "%(id)s.%(ext)s"),
		"--print", "after_move:filepath",
		"--no-simulate",
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: yt-dlp download: %v\n%s", ports.ErrFetch, err, string(b))
	}

	// yt-dlp prints the final path after the audio post-processor has
	// renamed the download; take the last non-empty line.
	var path string
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			path = s
		}
	}
	if path == "" {
		return "", fmt.Errorf("%w: yt-dlp download: no output path for %s", ports.ErrFetch, url)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: downloaded file missing: %v", ports.ErrFetch, err)
	}
	return path, nil
}
