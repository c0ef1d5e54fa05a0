package interpret

import "strings"

// MessageTerminatorMarker starts the ASTM message terminator record.
const MessageTerminatorMarker = "L"

// IsMessageTerminator reports whether the last CR-separated line of the
// frame text starts with the terminator record marker.
//
// The frame type is not consulted. Trailing empty lines are ignored, so
// "L|1|N\r" is a terminator while "L|1|N\rP|2\r" is not.
func IsMessageTerminator(frame Frame) bool {
	lines := splitLines(frame.Text)
	return strings.HasPrefix(lines[len(lines)-1], MessageTerminatorMarker)
}

// splitLines splits on RecordSeparator and drops trailing empty lines, so
// the result always has at least one element.
func splitLines(text string) []string {
	lines := strings.Split(text, RecordSeparator)
	n := len(lines)
	for n > 1 && lines[n-1] == "" {
		n--
	}
	return lines[:n]
}
