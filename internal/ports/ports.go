// Package ports declares the collaborator capabilities the pipeline depends
// on, plus the error taxonomy adapters wrap their failures with. Fetch,
// transcription and analysis errors are run-fatal; media cut and render
// errors stay scoped to a single clip.
package ports

import (
	"context"
	"errors"

	"github.com/podbot/podclip/internal/types"
)

var (
	ErrFetch         = errors.New("fetch source")
	ErrTranscription = errors.New("transcription")
	ErrAnalysis      = errors.New("analysis")
	ErrMediaCut      = errors.New("media cut")
	ErrRender        = errors.New("render")
)

type SourceFetcher interface {
	// Info resolves source id and title without downloading, so the
	// idempotency gate can run before any heavy work.
	Info(ctx context.Context, url string) (types.SourceInfo, error)
	// Fetch downloads the source audio and returns its local path.
	Fetch(ctx context.Context, url string) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, cacheDir string) (types.Transcript, error)
}

type ClipProposer interface {
	// Propose returns the raw clip records from the analysis model. Records
	// may be malformed or partial; the clip plan validator tolerates that.
	Propose(ctx context.Context, transcriptText string) ([]map[string]any, error)
}

type MediaTool interface {
	CutAudio(ctx context.Context, srcPath string, start, end float64, outPath string) error
	MakeBackground(ctx context.Context, title, outPath string) error
	// ComposeVideo must produce output whose play duration equals
	// targetDuration exactly; the visual track never outlives the audio.
	ComposeVideo(ctx context.Context, audioPath, imagePath, srtPath string, targetDuration float64, outPath string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

type ObjectStore interface {
	// Store uploads a file and returns its public URL. Failure is non-fatal
	// to the run; the clip just stays unpublished.
	Store(ctx context.Context, filePath string) (string, error)
}

type Notifier interface {
	// Notify is best-effort; errors are logged, never escalated.
	Notify(ctx context.Context, message string) error
}

type StatusStore interface {
	IsCompleted(ctx context.Context, sourceID string) (bool, error)
	MarkProcessing(ctx context.Context, sourceID, url, title string) error
	MarkCompleted(ctx context.Context, sourceID string) error
	MarkFailed(ctx context.Context, sourceID string) error
	Close() error
}
