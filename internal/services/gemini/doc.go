// Package gemini implements the AI gateway: skin and product diagnosis,
// product image rendering, and environment lookups against the Gemini
// generateContent API.
package gemini
