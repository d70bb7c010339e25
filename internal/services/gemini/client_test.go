package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skinsight/internal/diagnosis"
	"skinsight/internal/services"
)

func testProfile() diagnosis.Profile {
	return diagnosis.Profile{
		Age:         "25-34",
		Concerns:    []string{"Akne"},
		Lifestyle:   "Aktiv",
		SunExposure: "Mittel",
		Sensitivity: "Niedrig",
		WaterIntake: "2L",
		SleepHours:  "7-8",
	}
}

func textResponse(t *testing.T, text string) string {
	t.Helper()
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	encoded, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	return string(encoded)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		TextModel:  "text-model",
		ImageModel: "image-model",
	}, WithRetryMaxAttempts(1), WithSleeper(func(time.Duration) {}))
	return client, server
}

func TestDiagnoseSkinDecodesFencedPayload(t *testing.T) {
	payload := "```json\n{\"overallScore\": 88, \"skinType\": \"Ölig\", \"morningRoutine\": [{\"product\": \"Cleanser\", \"action\": \"Waschen\", \"reason\": \"Talg\"}], \"eveningRoutine\": [], \"tips\": [\"LSF nutzen\"]}\n```"
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(textResponse(t, payload)))
	})

	analysis, err := client.DiagnoseSkin(context.Background(), [][]byte{[]byte("jpeg")}, testProfile(), diagnosis.NeutralEnvironment())
	if err != nil {
		t.Fatalf("DiagnoseSkin: %v", err)
	}
	if !strings.Contains(gotPath, "text-model") {
		t.Errorf("request path = %q, want text model", gotPath)
	}
	if analysis.OverallScore != 88 || analysis.SkinType != "Ölig" {
		t.Errorf("analysis = %+v", analysis)
	}
	// Defaults fill omitted scores.
	if analysis.Hydration != diagnosis.DefaultHydration {
		t.Errorf("hydration = %d, want default", analysis.Hydration)
	}
	if analysis.EveningRoutine == nil {
		t.Error("evening routine must not be nil")
	}
}

func TestDiagnoseSkinWithoutKeyIsConfigurationError(t *testing.T) {
	client := NewClient(Config{TextModel: "m"})
	_, err := client.DiagnoseSkin(context.Background(), [][]byte{[]byte("jpeg")}, testProfile(), diagnosis.Environment{})
	if !services.IsFatalConfig(err) {
		t.Fatalf("want configuration error, got %v", err)
	}
}

func TestDiagnoseSkinServerErrorIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})
	_, err := client.DiagnoseSkin(context.Background(), [][]byte{[]byte("jpeg")}, testProfile(), diagnosis.Environment{})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("want transient error, got %v", err)
	}
	if !services.IsRetryable(err) {
		t.Fatal("transient error should be retryable")
	}
}

func TestDiagnoseSkinUnauthorizedIsConfiguration(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	})
	_, err := client.DiagnoseSkin(context.Background(), [][]byte{[]byte("jpeg")}, testProfile(), diagnosis.Environment{})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("want configuration error, got %v", err)
	}
}

func TestDiagnoseSkinGarbageIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(t, "Hier ist deine Analyse, viel Spaß!")))
	})
	_, err := client.DiagnoseSkin(context.Background(), [][]byte{[]byte("jpeg")}, testProfile(), diagnosis.Environment{})
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("want malformed response error, got %v", err)
	}
}

func TestDiagnoseSkinRetriesTransientFailures(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"overallScore\":70}"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, TextModel: "m"},
		WithRetryMaxAttempts(3),
		WithRetryBackoff(time.Millisecond, time.Millisecond),
		WithSleeper(func(time.Duration) {}))

	analysis, err := client.DiagnoseSkin(context.Background(), [][]byte{[]byte("jpeg")}, testProfile(), diagnosis.Environment{})
	if err != nil {
		t.Fatalf("DiagnoseSkin after retries: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if analysis.OverallScore != 70 {
		t.Errorf("score = %d", analysis.OverallScore)
	}
}

func TestDiagnoseProductClampsRating(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(t, `{"name":"Serum","rating":15,"suitability":"Sehr gut"}`)))
	})
	product, err := client.DiagnoseProduct(context.Background(), []byte("jpeg"), testProfile())
	if err != nil {
		t.Fatalf("DiagnoseProduct: %v", err)
	}
	if product.Rating != 10 {
		t.Errorf("rating = %d, want clamped to 10", product.Rating)
	}
	if product.Ingredients == nil {
		t.Error("ingredients must not be nil")
	}
}

func TestRenderProductImageReturnsDataURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"aGVsbG8="}}]}}]}`))
	})
	ref := client.RenderProductImage(context.Background(), "Serum")
	if ref != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("ref = %q", ref)
	}
}

func TestRenderProductImageFallsBackOnFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	if ref := client.RenderProductImage(context.Background(), "Serum"); ref != FallbackProductImage {
		t.Errorf("ref = %q, want fallback", ref)
	}

	unconfigured := NewClient(Config{})
	if ref := unconfigured.RenderProductImage(context.Background(), "Serum"); ref != FallbackProductImage {
		t.Errorf("unconfigured ref = %q, want fallback", ref)
	}
}

func TestFetchEnvironmentFallsBackToNeutral(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	env := client.FetchEnvironment(context.Background(), 52.5, 13.4)
	if env != diagnosis.NeutralEnvironment() {
		t.Errorf("env = %+v, want neutral fallback", env)
	}
}

func TestFetchEnvironmentPatchesPartialReply(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(t, `{"uvIndex":6,"temp":"28°C"}`)))
	})
	env := client.FetchEnvironment(context.Background(), 52.5, 13.4)
	if env.UVIndex != 6 || env.Temp != "28°C" {
		t.Errorf("env = %+v", env)
	}
	if env.Pollution != "Gut" || env.Humidity != "50%" {
		t.Errorf("missing fields not defaulted: %+v", env)
	}
}

func TestHealthCheck(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(t, `{"ok":true}`)))
	})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestDecodeModelJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"direct", `{"name":"a"}`, "a", false},
		{"fenced", "```json\n{\"name\":\"b\"}\n```", "b", false},
		{"prose wrapped", `Hier: {"name":"c"} fertig.`, "c", false},
		{"bare fence", "```\n{\"name\":\"d\"}\n```", "d", false},
		{"empty", "", "", true},
		{"no json", "keine Daten", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeModelJSON(tt.content, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Name != tt.want {
				t.Errorf("name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}
