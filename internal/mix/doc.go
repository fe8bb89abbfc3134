// Package mix composes an ordered set of generated audio clips into one
// continuous DJ-style track. Clips are chained with linear crossfades, the
// first clip has leading silence trimmed, the whole mix is peak-normalized
// in a single global pass, and the result is exported as MP3 alongside a
// plain-text tracklist of start times.
package mix
