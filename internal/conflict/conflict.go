// Package conflict parses three-way merge-conflict markers embedded in
// plain text and produces resolved text for a chosen policy. It is a pure
// text transform: callers own reading the text from wherever it lives and
// writing the result back.
package conflict

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StartMarker     = "<<<<<<<"
	SeparatorMarker = "======="
	EndMarker       = ">>>>>>>"
)

// ErrMarkersRemain reports that resolution left marker lines behind that
// are not accounted for by malformed regions. It indicates a parsing bug,
// not bad input.
var ErrMarkersRemain = errors.New("conflict markers remain after resolution")

// Policy selects which side of each conflict region survives resolution.
type Policy int

const (
	Current Policy = iota
	Incoming
	Both
)

func (p Policy) String() string {
	switch p {
	case Current:
		return "current"
	case Incoming:
		return "incoming"
	case Both:
		return "both"
	}
	return "unknown"
}

// ParsePolicy converts a user-supplied policy name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "ours":
		return Current, nil
	case "incoming", "theirs":
		return Incoming, nil
	case "both":
		return Both, nil
	}
	return Current, fmt.Errorf("unknown policy %q: want current, incoming or both", s)
}

// Region is a transient view of one well-formed conflict span. Line fields
// are indices into the newline-split input. Labels are whatever followed
// the start/end marker tokens and are informational only.
type Region struct {
	StartLine     int
	SeparatorLine int
	EndLine       int
	CurrentLines  []string
	IncomingLines []string
	CurrentLabel  string
	IncomingLabel string
}

// Result is the outcome of one Resolve call. Unresolved counts start
// markers that had no reachable separator and end marker and were passed
// through unchanged.
type Result struct {
	Text       string
	Resolved   int
	Unresolved int
}

// Clean reports whether every region found was resolved.
func (r Result) Clean() bool {
	return r.Unresolved == 0
}

// Count returns the number of lines beginning with the start marker. It
// does not check that each marker opens a well-formed region.
func Count(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, StartMarker) {
			n++
		}
	}
	return n
}

// HasMarkers is a cheap containment check over the whole text: all three
// marker kinds present anywhere, not necessarily paired. A stray separator
// in unrelated content can make it report true; use Scan for structure.
func HasMarkers(text string) bool {
	return strings.Contains(text, StartMarker) &&
		strings.Contains(text, SeparatorMarker) &&
		strings.Contains(text, EndMarker)
}

// Scan walks the text and returns every well-formed conflict region in
// order. Start markers with no reachable separator and end marker produce
// no region. Marker-like lines inside a region are opaque content.
func Scan(text string) []Region {
	lines := strings.Split(text, "\n")
	var regions []Region

	for i := 0; i < len(lines); {
		if !strings.HasPrefix(lines[i], StartMarker) {
			i++
			continue
		}
		sep, end, ok := findRegionEnd(lines, i)
		if !ok {
			i++
			continue
		}
		regions = append(regions, Region{
			StartLine:     i,
			SeparatorLine: sep,
			EndLine:       end,
			CurrentLines:  lines[i+1 : sep],
			IncomingLines: lines[sep+1 : end],
			CurrentLabel:  markerLabel(lines[i], StartMarker),
			IncomingLabel: markerLabel(strings.TrimSpace(lines[end]), EndMarker),
		})
		i = end + 1
	}

	return regions
}

// Resolve replaces each well-formed conflict region with the side(s) the
// policy selects, dropping the three marker lines. Lines outside regions
// pass through verbatim. A start marker with no reachable separator and
// end marker is emitted unchanged and scanning resumes on the next line.
//
// The returned error is only ErrMarkersRemain, raised when the output
// still contains start markers beyond those attributed to malformed
// regions. The partially resolved text is still returned alongside it.
func Resolve(text string, policy Policy) (Result, error) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	res := Result{}

	for i := 0; i < len(lines); {
		line := lines[i]
		if !strings.HasPrefix(line, StartMarker) {
			out = append(out, line)
			i++
			continue
		}

		sep, end, ok := findRegionEnd(lines, i)
		if !ok {
			out = append(out, line)
			res.Unresolved++
			i++
			continue
		}

		switch policy {
		case Current:
			out = append(out, lines[i+1:sep]...)
		case Incoming:
			out = append(out, lines[sep+1:end]...)
		case Both:
			out = append(out, lines[i+1:sep]...)
			out = append(out, lines[sep+1:end]...)
		}
		res.Resolved++
		i = end + 1
	}

	res.Text = strings.Join(out, "\n")

	if Count(res.Text) != res.Unresolved {
		return res, ErrMarkersRemain
	}
	return res, nil
}

// findRegionEnd locates the separator and end marker for the region whose
// start marker sits at lines[start]. The separator is the first later line
// whose trimmed value is exactly the separator marker; the end is the
// first line after that whose trimmed value begins with the end marker.
func findRegionEnd(lines []string, start int) (sep, end int, ok bool) {
	sep = -1
	for j := start + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == SeparatorMarker {
			sep = j
			break
		}
	}
	if sep < 0 {
		return 0, 0, false
	}
	for k := sep + 1; k < len(lines); k++ {
		if strings.HasPrefix(strings.TrimSpace(lines[k]), EndMarker) {
			return sep, k, true
		}
	}
	return 0, 0, false
}

func markerLabel(line, marker string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, marker))
}
