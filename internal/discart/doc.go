// Package discart renders procedural vinyl-disc cover art: a white disc on
// a black canvas, one bold seeded graphic element, brand and date text, and
// a punched center hole. Output is deterministic per seed so a session's
// artwork can be regenerated exactly.
package discart
