package gemini

import (
	"context"
	"fmt"
	"strings"

	"skinsight/internal/diagnosis"
	"skinsight/internal/logging"
	"skinsight/internal/services"
)

// DiagnoseSkin submits captured frames plus the intake profile and ambient
// conditions, returning a normalized analysis. Failures carry the shared
// error taxonomy so the caller can decide between retry and reconfigure.
func (c *Client) DiagnoseSkin(ctx context.Context, captures [][]byte, profile diagnosis.Profile, env diagnosis.Environment) (*diagnosis.Analysis, error) {
	const op = "diagnose_skin"
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "gateway", op, "api key not configured", nil)
	}
	if len(captures) == 0 {
		return nil, services.Wrap(services.ErrMalformedResponse, "gateway", op, "no captures supplied", nil)
	}

	parts := textParts(skinAnalysisPrompt(profile, env), captures...)
	text, err := c.generateJSON(ctx, c.cfg.TextModel, parts, op)
	if err != nil {
		return nil, classify(op, err)
	}

	var analysis diagnosis.Analysis
	if err := DecodeModelJSON(text, &analysis); err != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, "gateway", op, "parse payload", err)
	}
	analysis.Normalize()
	return &analysis, nil
}

// DiagnoseProduct submits one product photo plus the intake profile and
// returns the gateway's assessment with the rating clamped to its scale.
func (c *Client) DiagnoseProduct(ctx context.Context, image []byte, profile diagnosis.Profile) (*diagnosis.ScannedProduct, error) {
	const op = "diagnose_product"
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "gateway", op, "api key not configured", nil)
	}
	if len(image) == 0 {
		return nil, services.Wrap(services.ErrMalformedResponse, "gateway", op, "no image supplied", nil)
	}

	parts := textParts(productAnalysisPrompt(profile), image)
	text, err := c.generateJSON(ctx, c.cfg.TextModel, parts, op)
	if err != nil {
		return nil, classify(op, err)
	}

	var product diagnosis.ScannedProduct
	if err := DecodeModelJSON(text, &product); err != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, "gateway", op, "parse payload", err)
	}
	product.Normalize()
	return &product, nil
}

// RenderProductImage asks the image model for a product visual and returns
// a data URL. Any failure degrades to the fixed fallback reference; image
// rendering never blocks or fails a diagnosis.
func (c *Client) RenderProductImage(ctx context.Context, description string) string {
	const op = "render_product_image"
	if !c.Configured() {
		return FallbackProductImage
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = "Skincare Product"
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: productImagePrompt(description)}}}},
	}
	resp, err := c.generateWithRetry(ctx, c.cfg.ImageModel, req, op)
	if err != nil {
		c.logger.Warn("product image generation failed, using fallback", logging.Error(err))
		return FallbackProductImage
	}
	mime, data := firstInlineImage(resp)
	if data == "" {
		return FallbackProductImage
	}
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, data)
}

// FetchEnvironment asks the text model for current ambient conditions.
// Best effort: any failure returns the neutral defaults.
func (c *Client) FetchEnvironment(ctx context.Context, lat, lon float64) diagnosis.Environment {
	const op = "fetch_environment"
	fallback := diagnosis.NeutralEnvironment()
	if !c.Configured() {
		return fallback
	}

	parts := []part{{Text: environmentPrompt(lat, lon)}}
	text, err := c.generateJSON(ctx, c.cfg.TextModel, parts, op)
	if err != nil {
		c.logger.Warn("environment fetch failed, using defaults", logging.Error(err))
		return fallback
	}

	var env diagnosis.Environment
	if err := DecodeModelJSON(text, &env); err != nil {
		return fallback
	}
	if env.Pollution == "" {
		env.Pollution = fallback.Pollution
	}
	if env.Humidity == "" {
		env.Humidity = fallback.Humidity
	}
	if env.Temp == "" {
		env.Temp = fallback.Temp
	}
	if env.UVIndex <= 0 {
		env.UVIndex = fallback.UVIndex
	}
	return env
}

// HealthCheck verifies the credential and text model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	const op = "health_check"
	if !c.Configured() {
		return services.Wrap(services.ErrConfiguration, "gateway", op, "api key not configured", nil)
	}
	parts := []part{{Text: `Antworte nur mit JSON: {"ok":true}`}}
	text, err := c.generateJSON(ctx, c.cfg.TextModel, parts, op)
	if err != nil {
		return classify(op, err)
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeModelJSON(text, &parsed); err != nil {
		return services.Wrap(services.ErrMalformedResponse, "gateway", op, "parse payload", err)
	}
	if !parsed.OK {
		return services.Wrap(services.ErrMalformedResponse, "gateway", op, "unexpected response", nil)
	}
	return nil
}
