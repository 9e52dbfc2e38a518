package lyrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantSynced string
		wantPlain  string
		wantErr    bool
	}{
		{
			name:       "synced and plain lyrics",
			status:     http.StatusOK,
			body:       `{"syncedLyrics": "[00:12.00]Hello world", "plainLyrics": "Hello world"}`,
			wantSynced: "[00:12.00]Hello world",
			wantPlain:  "Hello world",
		},
		{
			name:      "plain only",
			status:    http.StatusOK,
			body:      `{"syncedLyrics": "", "plainLyrics": "Just plain text"}`,
			wantPlain: "Just plain text",
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"code":404,"name":"NotFoundError","message":"Failed to find specified track"}`,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `internal server error`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("track_name") != "Song" {
					t.Errorf("unexpected track_name: %s", r.URL.Query().Get("track_name"))
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient()
			client.apiURL = srv.URL

			got, err := client.Fetch(context.Background(), "Artist", "Song", "Album")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Synced != tt.wantSynced {
				t.Errorf("Synced = %q, want %q", got.Synced, tt.wantSynced)
			}
			if got.Plain != tt.wantPlain {
				t.Errorf("Plain = %q, want %q", got.Plain, tt.wantPlain)
			}
		})
	}
}

func TestResultBest(t *testing.T) {
	tests := []struct {
		result   Result
		expected string
	}{
		{Result{Synced: "[00:01.00]a", Plain: "a"}, "[00:01.00]a"},
		{Result{Plain: "only plain"}, "only plain"},
		{Result{}, ""},
	}

	for _, tt := range tests {
		if got := tt.result.Best(); got != tt.expected {
			t.Errorf("Best() = %q, want %q", got, tt.expected)
		}
	}
}
