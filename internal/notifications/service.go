package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skinsight/internal/config"
)

const userAgent = "Skinsight-Go/0.1.0"

// Service defines the notification surface exposed to the app.
type Service interface {
	NotifyDiagnosisComplete(ctx context.Context, skinType string, overallScore int) error
	NotifyStreakMilestone(ctx context.Context, streak int) error
	NotifyProductScanned(ctx context.Context, name string, rating int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyDiagnosisComplete(ctx context.Context, skinType string, overallScore int) error {
	skinType = strings.TrimSpace(skinType)
	if skinType == "" {
		skinType = "unbekannt"
	}
	data := payload{
		title:   "Skinsight - Analyse fertig",
		message: fmt.Sprintf("Hauttyp %s, Score %d/100", skinType, overallScore),
		tags:    []string{"skinsight", "diagnosis", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStreakMilestone(ctx context.Context, streak int) error {
	data := payload{
		title:    "Skinsight - Streak",
		message:  fmt.Sprintf("%d Tage in Folge aktiv!", streak),
		tags:     []string{"skinsight", "streak", "milestone"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyProductScanned(ctx context.Context, name string, rating int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Produkt"
	}
	data := payload{
		title:   "Skinsight - Produkt-Check",
		message: fmt.Sprintf("%s bewertet: %d/10", name, rating),
		tags:    []string{"skinsight", "product", "scanned"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Skinsight - Error",
		message:  builder.String(),
		tags:     []string{"skinsight", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Skinsight - Test",
		message:  "Notification system test",
		tags:     []string{"skinsight", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyDiagnosisComplete(context.Context, string, int) error { return nil }
func (noopService) NotifyStreakMilestone(context.Context, int) error           { return nil }
func (noopService) NotifyProductScanned(context.Context, string, int) error    { return nil }
func (noopService) NotifyError(context.Context, error, string) error           { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
