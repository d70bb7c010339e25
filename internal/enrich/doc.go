// Package enrich resolves product imagery for diagnosis routines with a
// bounded worker pool.
package enrich
