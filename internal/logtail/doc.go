// Package logtail reads the end of aurad's diagnostic log for display.
//
// # Reading
//
// Read extracts the last N lines of a file in one pass using a ring buffer,
// so memory stays O(N) regardless of file size. A missing file returns
// nil, nil; the log may not exist until the first message is written.
//
// # Decoding
//
// The diagnostic log is zerolog JSON. Decode pulls the well-known keys
// (time, level, component, message, error) out of a line and keeps the rest
// as string fields. Format turns a Record into one readable line:
//
//	10:00:00 WARN [dashboard] health probe failed: connection refused cycle=7
//
// Lines that are not JSON are shown unchanged.
package logtail
