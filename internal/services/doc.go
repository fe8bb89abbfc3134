// Package services defines shared utilities consumed by the media pipeline
// components and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session identifiers and source paths for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (validation vs tool vs no-solution) uniform across the
//     mixer, loop selector, and provider clients.
package services
