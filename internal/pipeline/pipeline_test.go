package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeStub(path string) error {
	return os.WriteFile(path, []byte("stub"), 0o644)
}

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "https://youtube.example/watch?v=Abc_123", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "youtube-example-watch-v-abc-123-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("youtube-example-watch-v-abc-123-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ":          "my-cool-video",
		"___":                        "",
		"abc123":                     "abc123",
		"https://host/path?q=1":      "host-path-q-1",
		"http://HOST.example/watch!": "host-example-watch",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestConfigValidate_MissingRequired(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Fatal("expected validation error for empty config")
	}

	cfg := Config{
		SourceURL:      "https://youtube.example/watch?v=x",
		DownloadDir:    "downloads",
		OutDir:         "out",
		RenderWorkers:  2,
		WhisperBin:     "whisper",
		WhisperModel:   "model.bin",
		DeepSeekAPIKey: "key",
		R2AccessKey:    "ak",
		R2SecretKey:    "sk",
		R2Bucket:       "clips",
		R2Endpoint:     "https://r2.example",
		TelegramToken:  "tok",
		TelegramChatID: 42,
		StatusDBPath:   "podclip.db",
	}
	cfg.TelegramToken = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing telegram token")
	}
	if !strings.Contains(err.Error(), "TelegramToken") {
		t.Fatalf("expected TelegramToken in error, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownAnalysisHost(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.bin")
	if err := writeStub(model); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		SourceURL:       "https://youtube.example/watch?v=x",
		DownloadDir:     "downloads",
		OutDir:          "out",
		RenderWorkers:   1,
		WhisperBin:      "whisper",
		WhisperModel:    model,
		DeepSeekAPIKey:  "key",
		DeepSeekBaseURL: "https://evil.example",
		R2AccessKey:     "ak",
		R2SecretKey:     "sk",
		R2Bucket:        "clips",
		R2Endpoint:      "https://r2.example",
		TelegramToken:   "tok",
		TelegramChatID:  42,
		StatusDBPath:    "podclip.db",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected base URL validation error")
	}
}
