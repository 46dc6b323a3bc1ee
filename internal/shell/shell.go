// Package shell provides quote-aware tokenization of shell command lines.
//
// Rules that reason about command structure go through this package instead
// of substring matching, so text inside quoted arguments cannot be mistaken
// for live shell operators.
package shell

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Segment is one simple command within a compound command line.
type Segment struct {
	Text string
	// Piped is true when the segment receives stdin from the previous
	// segment via '|'.
	Piped bool
}

// Split breaks a compound command on &&, ||, ; and | while respecting
// single quotes, double quotes, and backslash escapes.
func Split(command string) []Segment {
	var segments []Segment
	var current strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	piped := false

	flush := func(nextPiped bool) {
		text := strings.TrimSpace(current.String())
		if text != "" {
			segments = append(segments, Segment{Text: text, Piped: piped})
		}
		current.Reset()
		piped = nextPiped
	}

	runes := []rune(command)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}
		if ch == '\\' && !inSingle {
			current.WriteRune(ch)
			escaped = true
			continue
		}
		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			current.WriteRune(ch)
			continue
		}
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			current.WriteRune(ch)
			continue
		}
		if inSingle || inDouble {
			current.WriteRune(ch)
			continue
		}

		switch {
		case ch == '&' && i+1 < len(runes) && runes[i+1] == '&':
			flush(false)
			i++
		case ch == '|' && i+1 < len(runes) && runes[i+1] == '|':
			flush(false)
			i++
		case ch == '|':
			flush(true)
		case ch == ';':
			flush(false)
		default:
			current.WriteRune(ch)
		}
	}
	flush(false)

	return segments
}

// Fields splits a simple command into words, honoring quotes and escapes.
// Surrounding quotes are stripped, so a quoted argument comes back as the
// text the program would actually receive.
func Fields(segment string) []string {
	var fields []string
	var current strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	inWord := false

	flush := func() {
		if inWord {
			fields = append(fields, current.String())
			current.Reset()
			inWord = false
		}
	}

	for _, ch := range segment {
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}

		switch {
		case ch == '\\' && !inSingle:
			escaped = true
			inWord = true
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			inWord = true
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			inWord = true
		case (ch == ' ' || ch == '\t' || ch == '\n') && !inSingle && !inDouble:
			flush()
		default:
			current.WriteRune(ch)
			inWord = true
		}
	}
	flush()

	return fields
}

var envAssignPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// Command extracts the program name and its arguments from tokenized
// fields, skipping leading NAME=value environment assignments. The program
// name is reduced to its base name so /usr/bin/grep and grep compare equal.
func Command(fields []string) (string, []string) {
	idx := 0
	for idx < len(fields) && envAssignPattern.MatchString(fields[idx]) {
		idx++
	}
	if idx >= len(fields) {
		return "", nil
	}
	return filepath.Base(fields[idx]), fields[idx+1:]
}

// Program returns the raw program word of a segment (before base-name
// reduction), with leading environment assignments skipped. Used by rules
// that care about how the program was addressed, e.g. via an explicit
// virtualenv path.
func Program(fields []string) string {
	idx := 0
	for idx < len(fields) && envAssignPattern.MatchString(fields[idx]) {
		idx++
	}
	if idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
