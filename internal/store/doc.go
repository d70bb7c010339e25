// Package store persists the app snapshot and daily progress history in
// SQLite, with JSON export/import and an optional remote sync decorator.
package store
