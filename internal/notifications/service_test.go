package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skinsight/internal/config"
	"skinsight/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDiagnosisComplete(context.Background(), "Mischhaut", 82); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "diagnosis complete",
			notify: func(svc notifications.Service) error {
				return svc.NotifyDiagnosisComplete(context.Background(), "Ölig", 77)
			},
			expectTitle:   "Skinsight - Analyse fertig",
			expectMessage: "Hauttyp Ölig, Score 77/100",
			expectTags:    "skinsight,diagnosis,completed",
		},
		{
			name: "streak milestone",
			notify: func(svc notifications.Service) error {
				return svc.NotifyStreakMilestone(context.Background(), 7)
			},
			expectTitle:    "Skinsight - Streak",
			expectMessage:  "7 Tage in Folge aktiv!",
			expectTags:     "skinsight,streak,milestone",
			expectPriority: "high",
		},
		{
			name: "product scanned",
			notify: func(svc notifications.Service) error {
				return svc.NotifyProductScanned(context.Background(), "Niacinamid Serum", 8)
			},
			expectTitle:   "Skinsight - Produkt-Check",
			expectMessage: "Niacinamid Serum bewertet: 8/10",
			expectTags:    "skinsight,product,scanned",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("boom"), "diagnosis")
			},
			expectTitle:    "Skinsight - Error",
			expectMessage:  "Error with diagnosis: boom",
			expectTags:     "skinsight,error,alert",
			expectPriority: "high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTitle, gotMessage, gotTags, gotPriority string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				gotMessage = string(body)
				gotTitle = r.Header.Get("Title")
				gotTags = r.Header.Get("Tags")
				gotPriority = r.Header.Get("Priority")
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			svc := notifications.NewService(&cfg)

			if err := tt.notify(svc); err != nil {
				t.Fatalf("notify: %v", err)
			}
			if gotTitle != tt.expectTitle {
				t.Errorf("title = %q, want %q", gotTitle, tt.expectTitle)
			}
			if gotMessage != tt.expectMessage {
				t.Errorf("message = %q, want %q", gotMessage, tt.expectMessage)
			}
			if gotTags != tt.expectTags {
				t.Errorf("tags = %q, want %q", gotTags, tt.expectTags)
			}
			if gotPriority != tt.expectPriority {
				t.Errorf("priority = %q, want %q", gotPriority, tt.expectPriority)
			}
		})
	}
}

func TestNtfyServiceSurfacesHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
