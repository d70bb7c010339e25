// Package session drives the guided diagnosis flow: camera capture, the
// intake questionnaire, AI analysis with retry, rewards, and persistence.
// The Manager is the single writer of session state; UI layers observe it
// through Events callbacks and Snapshot.
package session
