// Package logging provides the logging interface shared by racecoord components.
// It abstracts the underlying implementation (zerolog or the standard log
// package) so race tasks can log structured fields from many goroutines.
package logging
