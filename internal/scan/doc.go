// Package scan implements the timed capture sequencer that walks the user
// through the diagnosis poses and the quick and product scan variants.
package scan
