// Package providers implements the music generation backends. Each backend
// clamps requested durations to its service limits, retries transient
// failures under the configured policy, and writes the resulting MP3 next
// to a JSON sidecar the mix compositor consumes.
package providers
