// Package ui provides the editing and conflict presentation surfaces used
// by the shortcut resolver: a line-oriented prompt for pipes and plain
// terminals, a full-screen tcell dialog, and a scripted surface for
// non-interactive runs.
//
// All surfaces accept the same proposal syntax: sequences separated by
// ";", the words "default" and "none", an empty entry to keep the current
// shortcuts and "cancel" to abandon the edit.
package ui
