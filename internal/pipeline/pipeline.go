// Package pipeline wires adapters to the usecase for one run. All options
// live in an explicit Config value; there is no package-level state.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/podbot/podclip/internal/ports"
	"github.com/podbot/podclip/internal/ports/adapters/deepseek"
	"github.com/podbot/podclip/internal/ports/adapters/ffmpeg"
	"github.com/podbot/podclip/internal/ports/adapters/r2"
	"github.com/podbot/podclip/internal/ports/adapters/sqlite"
	"github.com/podbot/podclip/internal/ports/adapters/telegram"
	"github.com/podbot/podclip/internal/ports/adapters/whispercpp"
	"github.com/podbot/podclip/internal/ports/adapters/ytdlp"
	"github.com/podbot/podclip/internal/types"
	"github.com/podbot/podclip/internal/usecase"
)

type Config struct {
	SourceURL   string `validate:"required,url"`
	DownloadDir string `validate:"required"`
	OutDir      string `validate:"required"`

	// CacheDir is the base directory for local artifacts (transcripts,
	// whisper output). If empty, defaults to ".cache".
	CacheDir string

	RenderWorkers int `validate:"gte=1"`

	YtDlpPath   string
	FFmpegPath  string
	FFprobePath string

	WhisperBin   string `validate:"required"`
	WhisperModel string `validate:"required"`

	DeepSeekAPIKey       string `validate:"required"`
	DeepSeekModel        string
	DeepSeekBaseURL      string
	DeepSeekAllowedHosts []string

	R2AccessKey     string `validate:"required"`
	R2SecretKey     string `validate:"required"`
	R2Bucket        string `validate:"required"`
	R2Endpoint      string `validate:"required,url"`
	R2PublicBaseURL string

	TelegramToken  string `validate:"required"`
	TelegramChatID int64  `validate:"required"`

	StatusDBPath string `validate:"required"`

	Log *logrus.Logger `validate:"-"`
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := os.Stat(c.WhisperModel); err != nil {
		return fmt.Errorf("stat whisper model: %w", err)
	}
	return deepseek.ValidateBaseURL(c.DeepSeekBaseURL, c.DeepSeekAllowedHosts)
}

// Run executes one full pipeline run and writes a report.json into the run
// output directory. The returned report is valid even when err is non-nil.
func Run(ctx context.Context, cfg Config) (types.RunReport, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}

	cacheBase := cfg.CacheDir
	if cacheBase == "" {
		cacheBase = ".cache"
	}
	cacheDir := filepath.Join(cacheBase, "runs", hash(cfg.SourceURL))
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return types.RunReport{}, err
	}

	runOutDir := buildRunOutDir(cfg.OutDir, cfg.SourceURL, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return types.RunReport{}, err
	}
	log.WithFields(logrus.Fields{"out": runOutDir, "cache": cacheDir}).Info("workspace prepared")

	status, err := sqlite.Open(cfg.StatusDBPath)
	if err != nil {
		return types.RunReport{}, err
	}
	defer status.Close()

	notifier, err := telegram.New(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return types.RunReport{}, err
	}

	uc := usecase.New(usecase.Deps{
		Fetcher: ytdlp.New(cfg.YtDlpPath, cfg.DownloadDir),
		ASR:     whispercpp.New(cfg.WhisperBin, cfg.WhisperModel),
		LLM:     deepseek.New(cfg.DeepSeekAPIKey, cfg.DeepSeekModel, cfg.DeepSeekBaseURL),
		Media:   ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Store:   r2.New(cfg.R2AccessKey, cfg.R2SecretKey, cfg.R2Endpoint, cfg.R2Bucket, cfg.R2PublicBaseURL),
		Notify:  notifier,
		Status:  status,
		Log:     log,
	})

	report, runErr := uc.Run(ctx, usecase.Input{
		SourceURL:     cfg.SourceURL,
		OutDir:        runOutDir,
		CacheDir:      cacheDir,
		RenderWorkers: cfg.RenderWorkers,
	})

	if b, err := json.MarshalIndent(report, "", "  "); err == nil {
		reportPath := filepath.Join(runOutDir, "report.json")
		if werr := os.WriteFile(reportPath, b, 0o644); werr != nil {
			log.WithError(werr).Warn("write run report failed")
		} else {
			log.WithField("report", reportPath).Info("run report written")
		}
	}
	return report, runErr
}

func buildRunOutDir(outRoot, sourceURL string, now time.Time) string {
	name := normalizePathSegment(sourceURL)
	if name == "" {
		name = "source"
	}
	if len(name) > 48 {
		name = name[:48]
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", sourceURL, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "https://"), "http://")
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.SourceFetcher = (*ytdlp.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
var _ ports.ClipProposer = (*deepseek.Adapter)(nil)
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.ObjectStore = (*r2.Adapter)(nil)
var _ ports.Notifier = (*telegram.Adapter)(nil)
var _ ports.StatusStore = (*sqlite.Store)(nil)
