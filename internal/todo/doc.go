// Package todo reads, renders, and updates plain-text task files.
//
// A task file holds one task per line:
//
//	[ ] buy milk
//	[*] call the bank
//
// The first four bytes of every non-empty line are the checkbox marker
// followed by a space: "[ ] " for an open task and "[*] " for a completed
// one. Everything after the marker is the description. Empty lines are
// ignored; any other line that does not start with a marker is reported as
// a *ParseError carrying its 1-based line number.
//
// # Matching
//
// Existence checks (add, complete, uncomplete, update) test whether the
// requested description occurs anywhere in the raw file content. The
// mutations themselves only touch lines whose description is exactly equal
// to a requested one. A description that is merely a substring of an
// existing task therefore passes validation for complete but changes
// nothing, and is refused by add.
//
// # Persistence
//
// Add appends to the file. Every other mutation rewrites the whole file
// through a temporary file and rename, so an interrupted write never leaves
// a truncated list behind. Operations take an advisory lock on
// "<path>.lock" unless locking is disabled.
package todo
