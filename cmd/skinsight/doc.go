// Package main hosts the Skinsight CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the guided diagnosis flow from the
// terminal: camera scans, the intake questionnaire, daily check-ins, product
// assessments, and data maintenance (history, export/import, reset). It
// centralizes configuration resolution and application wiring so subcommands
// can focus on user interaction.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
