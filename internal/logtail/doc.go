// Package logtail reads the end of stockroom's log file.
//
// The TUI owns the terminal, so stockroom logs to a file. Tail pulls the
// most recent lines back out, optionally keeping only warnings and worse,
// using a ring buffer so memory stays proportional to the lines returned
// rather than the file size.
package logtail
