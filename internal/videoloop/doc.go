// Package videoloop turns a short generated clip into a seamless
// forward-playing loop. It samples frames at a fixed rate, fingerprints each
// frame with a 64-bit difference hash, searches candidate (start, end) pairs
// for the most visually continuous jump point, and renders the chosen
// segment with a short crossfade across the seam.
package videoloop
