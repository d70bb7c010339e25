// Package notifications delivers app events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. All app code depends only on the simple Service interface.
package notifications
