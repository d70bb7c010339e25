package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"skinsight/internal/store"
	"skinsight/internal/testsupport"
)

func TestSyncAdapterPushesAfterSave(t *testing.T) {
	var pushes atomic.Int64
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		gotAuth.Store(r.Header.Get("Authorization"))
		var doc map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			t.Errorf("sync body not JSON: %v", err)
		}
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithSync(server.URL, "secret"))
	local := testsupport.MustOpenStore(t, cfg)
	adapter := store.NewSyncAdapter(local, cfg, nil)

	if err := adapter.SaveState(context.Background(), sampleSettings(), nil); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	if pushes.Load() != 1 {
		t.Errorf("pushes = %d, want 1", pushes.Load())
	}
	if auth, _ := gotAuth.Load().(string); auth != "Bearer secret" {
		t.Errorf("authorization = %q", auth)
	}
}

func TestSyncAdapterAbsorbsRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithSync(server.URL, "secret"))
	local := testsupport.MustOpenStore(t, cfg)
	adapter := store.NewSyncAdapter(local, cfg, nil)

	ctx := context.Background()
	if err := adapter.SaveState(ctx, sampleSettings(), nil); err != nil {
		t.Fatalf("remote failure must not fail the save: %v", err)
	}

	// Local state is intact despite the failed push.
	settings, _, err := adapter.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.UserName != "Alex" {
		t.Errorf("settings = %+v", settings)
	}
}

func TestSyncAdapterDisabledWithoutURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	local := testsupport.MustOpenStore(t, cfg)
	adapter := store.NewSyncAdapter(local, cfg, nil)
	if adapter != store.Adapter(local) {
		t.Fatal("unconfigured sync should return the local adapter unchanged")
	}
}
