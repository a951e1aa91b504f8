package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/podbot/podclip/internal/ports"
)

func completionResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestPropose_ReturnsRawRecords(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		content := `{"clips":[{"start_time":"00:01:00","end_time":"00:01:30","title":"Funny bit"},{"start":"bad"}]}`
		_, _ = w.Write([]byte(completionResponse(content)))
	}))
	defer srv.Close()

	a := New("test-key", "", srv.URL)
	records, err := a.Propose(context.Background(), "transcript text")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 raw records, got %d", len(records))
	}
	if records[0]["title"] != "Funny bit" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestPropose_TolerantOfFencedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		content := "```json\n{\"clips\":[{\"start\":1.0,\"end\":5.0}]}\n```"
		_, _ = w.Write([]byte(completionResponse(content)))
	}))
	defer srv.Close()

	a := New("k", "deepseek-chat", srv.URL)
	records, err := a.Propose(context.Background(), "t")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestPropose_AnalysisErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", http.StatusBadGateway)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "content without JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(completionResponse("sorry, no clips today")))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			a := New("k", "", srv.URL)
			if _, err := a.Propose(context.Background(), "t"); !errors.Is(err, ports.ErrAnalysis) {
				t.Fatalf("expected ErrAnalysis, got %v", err)
			}
		})
	}
}

func TestPropose_RedactsKeyInErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key sk-secret-123 rejected", http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := New("sk-secret-123", "", srv.URL)
	_, err := a.Propose(context.Background(), "t")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "sk-secret-123") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}
