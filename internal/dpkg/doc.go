// Package dpkg is the boundary to the dpkg-divert command line tool.
//
// It builds the tool's argument lists, runs the read-only queries
// (--listpackage, --truename, --list) and executes mutating invocations,
// reporting their exit code and output verbatim. All interpretation of
// what an outcome means (conflict, no-op, rollback) belongs to the
// divert package; this one only speaks dpkg-divert's dialect.
//
// dpkg-divert has no notion of an unset holder: a diversion either belongs
// to a package or to "LOCAL". This package canonicalizes that at the
// boundary: the empty string means "no package" everywhere inside divert,
// and is translated to/from LOCAL here.
package dpkg
