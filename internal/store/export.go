package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skinsight/internal/diagnosis"
	"skinsight/internal/services"
)

// snapshot is the portable backup shape.
type snapshot struct {
	Settings *diagnosis.Settings `json:"settings"`
	Analysis *diagnosis.Analysis `json:"analysis,omitempty"`
}

// Export serializes the current state into a portable JSON document and a
// dated artifact name.
func (s *Store) Export(ctx context.Context) ([]byte, string, error) {
	settings, analysis, err := s.LoadState(ctx)
	if err != nil {
		return nil, "", err
	}

	doc := snapshot{Settings: &settings, Analysis: analysis}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode snapshot: %w", err)
	}

	name := fmt.Sprintf("skinsight_backup_%s.json", time.Now().Format("2006-01-02"))
	return data, name, nil
}

// Import replaces the stored state with the supplied snapshot. The document
// must contain a settings object; anything else leaves state untouched.
func (s *Store) Import(ctx context.Context, data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return services.Wrap(services.ErrInvalidImport, "store", "import", "not a JSON object", err)
	}
	rawSettings, ok := probe["settings"]
	if !ok || string(rawSettings) == "null" {
		return services.Wrap(services.ErrInvalidImport, "store", "import", "missing settings object", nil)
	}

	var doc snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return services.Wrap(services.ErrInvalidImport, "store", "import", "decode snapshot", err)
	}
	if doc.Settings == nil {
		return services.Wrap(services.ErrInvalidImport, "store", "import", "missing settings object", nil)
	}
	if doc.Analysis != nil {
		doc.Analysis.Normalize()
	}

	return s.SaveState(ctx, *doc.Settings, doc.Analysis)
}
