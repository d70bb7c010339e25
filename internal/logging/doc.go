// Package logging provides slog construction helpers and the standardized
// attribute keys used across skinsight components.
package logging
