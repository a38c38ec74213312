package clang

import (
	"bytes"
	"slices"
	"strings"
)

// segment is a run of preprocessed text that came from one header.
type segment struct {
	start  int
	system bool
}

// systemRanges records which parts of a preprocessed buffer were expanded
// from system headers, according to the "# line "file" flags" markers the
// preprocessor writes. Flag 3 marks a system header.
type systemRanges []segment

func scanLineMarkers(contents []byte) systemRanges {
	var ranges systemRanges
	offset := 0
	for len(contents) > 0 {
		line, rest, _ := bytes.Cut(contents, []byte("\n"))
		if system, ok := parseLineMarker(string(line)); ok {
			next := offset + len(line) + 1
			if len(ranges) == 0 || ranges[len(ranges)-1].system != system {
				ranges = append(ranges, segment{start: next, system: system})
			}
		}
		offset += len(line) + 1
		contents = rest
	}
	return ranges
}

// parseLineMarker reports whether line is a line marker and whether it
// enters a system header.
func parseLineMarker(line string) (system, ok bool) {
	if !strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "#line ") {
		return false, false
	}
	fields := strings.Fields(strings.TrimPrefix(strings.TrimPrefix(line, "#line"), "#"))
	if len(fields) < 2 || !strings.HasPrefix(fields[1], `"`) {
		return false, false
	}
	for _, flag := range fields[2:] {
		if flag == "3" {
			return true, true
		}
	}
	return false, true
}

// contains reports whether offset lies in system header text.
func (r systemRanges) contains(offset int) bool {
	if offset < 0 || len(r) == 0 {
		return false
	}
	i, found := slices.BinarySearchFunc(r, offset, func(s segment, off int) int {
		return s.start - off
	})
	if !found {
		i--
	}
	if i < 0 {
		return false
	}
	return r[i].system
}
