// Package diagnosis defines the domain entities shared across the app:
// skin analyses, routine steps, product assessments, intake profiles,
// user settings, and daily progress entries.
package diagnosis
