package enrich

import (
	"context"
	"log/slog"
	"sync"

	"skinsight/internal/diagnosis"
	"skinsight/internal/logging"
)

const (
	defaultMaxSteps    = 3
	defaultParallelism = 3
)

// Renderer produces an image reference for a product description. It never
// fails; implementations degrade to a fallback reference.
type Renderer interface {
	RenderProductImage(ctx context.Context, description string) string
}

// Pipeline resolves product visuals for routine steps with bounded
// concurrency. Steps beyond the per-list cap are kept without an image.
type Pipeline struct {
	renderer    Renderer
	maxSteps    int
	parallelism int
	logger      *slog.Logger
}

// New builds a pipeline. Non-positive limits fall back to the defaults.
func New(renderer Renderer, maxSteps, parallelism int, logger *slog.Logger) *Pipeline {
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		renderer:    renderer,
		maxSteps:    maxSteps,
		parallelism: parallelism,
		logger:      logging.NewComponentLogger(logger, "enrich"),
	}
}

// EnrichAnalysis resolves images for both routines of an analysis. The
// input is not mutated; the result carries fresh routine slices.
func (p *Pipeline) EnrichAnalysis(ctx context.Context, analysis diagnosis.Analysis) diagnosis.Analysis {
	enriched := analysis
	enriched.MorningRoutine = p.EnrichSteps(ctx, analysis.MorningRoutine)
	enriched.EveningRoutine = p.EnrichSteps(ctx, analysis.EveningRoutine)
	return enriched
}

// EnrichSteps renders an image for each of the first maxSteps entries. Every
// input step appears in the output; a failed or skipped render leaves the
// step with its existing reference.
func (p *Pipeline) EnrichSteps(ctx context.Context, steps []diagnosis.RoutineStep) []diagnosis.RoutineStep {
	out := make([]diagnosis.RoutineStep, len(steps))
	copy(out, steps)
	if p.renderer == nil {
		return out
	}

	limit := p.maxSteps
	if limit > len(out) {
		limit = len(out)
	}

	sem := make(chan struct{}, p.parallelism)
	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			out[idx].ImageRef = p.renderer.RenderProductImage(ctx, out[idx].Product)
		}(i)
	}
	wg.Wait()

	p.logger.Debug("routine steps enriched",
		logging.Int("steps", len(out)),
		logging.Int("rendered", limit))
	return out
}

// EnrichProduct resolves the visual for a scanned product.
func (p *Pipeline) EnrichProduct(ctx context.Context, product diagnosis.ScannedProduct) diagnosis.ScannedProduct {
	if p.renderer == nil {
		return product
	}
	description := product.Name
	if description == "" {
		description = "Skincare Product"
	}
	product.ImageRef = p.renderer.RenderProductImage(ctx, description)
	return product
}
