// Package divert reconciles a single file's diversion state against the
// dpkg registry.
//
// dpkg-divert has no update primitive: changing the holder or the divert
// target of an existing diversion takes a remove followed by an add, and
// that pair can fail halfway. This package turns one desired state into the
// minimal sequence of dpkg-divert calls (zero, one or two), moves the
// displaced file at most once in each direction without ever overwriting
// anything, and restores the previous registry entry if the second half of
// a replacement fails.
//
// The work is split three ways: a probe reads the current state without
// mutating anything, a planner classifies the situation into one of four
// plans, and an executor carries the chosen plan out. Only the executor
// mutates.
package divert
