// Package pcm implements the decoded-audio arithmetic used by the mix
// compositor: linear crossfade appends, peak measurement, uniform gain, and
// leading-silence trimming over interleaved 16-bit samples.
package pcm
