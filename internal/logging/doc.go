// Package logging provides concrete implementations of the
// pgprovision.Logger interface.
//
//   - ConsoleLogger: thread-safe formatted output to stderr (or any writer)
//   - NullLogger: discards everything
package logging
