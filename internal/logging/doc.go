// Package logging centralizes slog handler construction for the pipeline.
//
// Two output formats are supported: a console handler that lifts the
// component attribute into a bracketed prefix for human consumption, and a
// standard JSON handler for machine ingestion. Context helpers stamp session
// and source fields so every component logs with consistent keys.
package logging
