// Package ffmpeg wraps the ffmpeg CLI for the operations the pipeline needs:
// audio decode to canonical PCM, MP3 encode, analysis frame extraction, loop
// segment cutting with a seam crossfade, and still-image video composition.
//
// All invocations run synchronously; callers wanting timeouts or cancellation
// pass a deadline context, which kills the subprocess. Failures carry the
// tail of the captured stderr for diagnosis and are never retried here.
package ffmpeg
