// Package viz renders trace results in the terminal: a styled run summary,
// ASCII nose-curve plots and a live Bubble Tea view that follows a trace as
// it runs.
package viz
