package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/podbot/podclip/internal/pipeline"
)

func run(cmd *cobra.Command, url string) error {
	outDir, _ := cmd.Flags().GetString("out")
	downloadDir, _ := cmd.Flags().GetString("downloads")
	workers, _ := cmd.Flags().GetInt("workers")

	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		return errors.New("DEEPSEEK_API_KEY is required (set it in .env)")
	}

	chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if err != nil {
		return fmt.Errorf("TELEGRAM_CHAT_ID must be a numeric chat id: %w", err)
	}

	cfg := pipeline.Config{
		SourceURL:     url,
		DownloadDir:   downloadDir,
		OutDir:        outDir,
		RenderWorkers: workers,

		YtDlpPath:   getenvDefault("YTDLP_PATH", "yt-dlp"),
		FFmpegPath:  getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),

		WhisperBin:   getenvDefault("WHISPER_BIN", ".cache/bin/whisper.cpp"),
		WhisperModel: getenvDefault("WHISPER_MODEL", ".cache/models/ggml-base.bin"),

		DeepSeekAPIKey:       apiKey,
		DeepSeekModel:        getenvDefault("DEEPSEEK_MODEL", "deepseek-chat"),
		DeepSeekBaseURL:      getenvDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		DeepSeekAllowedHosts: splitHosts(os.Getenv("DEEPSEEK_ALLOWED_HOSTS")),

		R2AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		R2SecretKey:     os.Getenv("R2_SECRET_KEY"),
		R2Bucket:        os.Getenv("R2_BUCKET_NAME"),
		R2Endpoint:      os.Getenv("R2_ENDPOINT_URL"),
		R2PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: chatID,

		StatusDBPath: getenvDefault("STATUS_DB", "podclip.db"),

		Log: newLogger(),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	report, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	for _, c := range report.Clips {
		if c.Artifact != nil && c.Artifact.PublishedURL != "" {
			fmt.Fprintln(cmd.OutOrStdout(), c.Artifact.PublishedURL)
		}
	}
	return nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func splitHosts(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
