// Package main hosts the coolio CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls
// against the internal pipeline packages: track generation, session mixing,
// loop clip rendering, disc art, still-video composition, library queries,
// and configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
