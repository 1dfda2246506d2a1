// Package internal contains shared infrastructure for navstack, currently the
// process-wide structured loggers. Types and functions in this package are not
// part of the public API.
package internal
