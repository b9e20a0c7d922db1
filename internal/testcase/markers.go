package testcase

import (
	"bufio"
	"bytes"
)

const (
	ddBegin = "DDBEGIN"
	ddEnd   = "DDEND"
)

// splitMarkers scans content line by line looking for the literal
// substrings DDBEGIN/DDEND. It returns the immutable prefix (up to and
// including the DDBEGIN line), the reducible middle region, and the
// immutable suffix (from the DDEND line onward). If neither marker is
// present, before and after are both empty and middle is the whole file.
//
// It is an error for DDEND to appear before DDBEGIN, and an error for
// DDBEGIN to appear without a matching DDEND.
func splitMarkers(path string, content []byte) (before, middle, after []byte, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var (
		beginOffset = -1
		endOffset   = -1
		offset      = 0
	)

	for scanner.Scan() {
		line := scanner.Bytes()
		lineLen := len(line)
		// Reconstruct the original line length including the line ending
		// ("\n" or "\r\n") that Scanner strips, by looking at the next
		// bytes in content.
		lineEnd := offset + lineLen
		if lineEnd < len(content) && content[lineEnd] == '\r' {
			lineEnd++
		}
		if lineEnd < len(content) && content[lineEnd] == '\n' {
			lineEnd++
		}

		if beginOffset == -1 && bytes.Contains(line, []byte(ddBegin)) {
			beginOffset = lineEnd
		} else if beginOffset != -1 && endOffset == -1 && bytes.Contains(line, []byte(ddEnd)) {
			endOffset = offset
		} else if endOffset == -1 && beginOffset == -1 && bytes.Contains(line, []byte(ddEnd)) {
			return nil, nil, nil, newLoadError(path, "DDEND found before DDBEGIN")
		}

		offset = lineEnd
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, nil, nil, newLoadError(path, scanErr.Error())
	}

	if beginOffset == -1 {
		return nil, content, nil, nil
	}
	if endOffset == -1 {
		return nil, nil, nil, newLoadError(path, "DDBEGIN found without matching DDEND")
	}

	return content[:beginOffset], content[beginOffset:endOffset], content[endOffset:], nil
}
