// Package library indexes reusable generated tracks. Metadata lives in a
// SQLite database under the library directory; audio files are stored next
// to it in a tracks/<genre>/ tree so sessions can reuse earlier generations
// instead of paying for new ones.
package library
