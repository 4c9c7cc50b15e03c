// Package cmd provides helpers for executing shell commands with proper error
// handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users. Every command
// runs with LC_ALL=C so that dpkg-divert's output is stable enough to match
// against, regardless of the user's locale.
//
// # Design Notes
//
// The divert tool shells out to the dpkg-divert CLI rather than touching the
// dpkg database directly. The database format is dpkg's private business, and
// going through the CLI keeps us on the supported side of its locking and
// validation.
package cmd
