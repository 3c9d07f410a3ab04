package conflict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleConflict = "line1\n<<<<<<< feature\nA\n=======\nB\n>>>>>>> main\nline2"

func TestResolvePolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy Policy
		want   string
	}{
		{"keep current", Current, "line1\nA\nline2"},
		{"keep incoming", Incoming, "line1\nB\nline2"},
		{"keep both", Both, "line1\nA\nB\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Resolve(singleConflict, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, 1, res.Resolved)
			assert.Equal(t, 0, res.Unresolved)
			assert.True(t, res.Clean())
		})
	}
}

func TestResolveNoConflicts(t *testing.T) {
	t.Parallel()
	res, err := Resolve("hello\nworld", Current)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", res.Text)
	assert.Equal(t, 0, res.Resolved)
}

func TestResolveEmptyInput(t *testing.T) {
	t.Parallel()
	res, err := Resolve("", Current)
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
}

func TestResolveMalformedRegionPassesThrough(t *testing.T) {
	t.Parallel()
	input := "<<<<<<< x\nA\n======="
	res, err := Resolve(input, Current)
	require.NoError(t, err)
	assert.Equal(t, input, res.Text)
	assert.Equal(t, 0, res.Resolved)
	assert.Equal(t, 1, res.Unresolved)
	assert.False(t, res.Clean())
}

func TestResolveTwoIndependentConflicts(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		"<<<<<<< HEAD",
		"one",
		"=======",
		"uno",
		">>>>>>> other",
		"mid",
		"<<<<<<< HEAD",
		"two",
		"=======",
		"dos",
		">>>>>>> other",
	}, "\n")

	res, err := Resolve(input, Incoming)
	require.NoError(t, err)
	assert.Equal(t, "uno\nmid\ndos", res.Text)
	assert.Equal(t, 2, res.Resolved)
}

func TestResolveSkipsRegionAsOneUnit(t *testing.T) {
	t.Parallel()
	// A marker-like line inside the current side is opaque content: the
	// whole region is skipped in one step, so dropping that side drops
	// the nested marker with it.
	input := strings.Join([]string{
		"<<<<<<< a",
		"ours",
		"<<<<<<< nested",
		"=======",
		"theirs",
		">>>>>>> b",
		"tail",
	}, "\n")

	res, err := Resolve(input, Incoming)
	require.NoError(t, err)
	assert.Equal(t, "theirs\ntail", res.Text)
	assert.Equal(t, 1, res.Resolved)
}

func TestResolveReportsLeftoverMarkers(t *testing.T) {
	t.Parallel()
	// Keeping a side that itself contains a start-marker line trips the
	// postcondition: the result comes back, but flagged.
	input := strings.Join([]string{
		"<<<<<<< a",
		"ours",
		"<<<<<<< nested",
		"=======",
		"theirs",
		">>>>>>> b",
		"tail",
	}, "\n")

	res, err := Resolve(input, Current)
	assert.ErrorIs(t, err, ErrMarkersRemain)
	assert.Equal(t, "ours\n<<<<<<< nested\ntail", res.Text)
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()
	for _, policy := range []Policy{Current, Incoming, Both} {
		first, err := Resolve(singleConflict, policy)
		require.NoError(t, err)
		second, err := Resolve(first.Text, policy)
		require.NoError(t, err)
		assert.Equal(t, first.Text, second.Text)
		assert.Equal(t, 0, second.Resolved)
	}
}

func TestResolveEliminatesMarkers(t *testing.T) {
	t.Parallel()
	res, err := Resolve(singleConflict, Both)
	require.NoError(t, err)
	for _, line := range strings.Split(res.Text, "\n") {
		assert.False(t, strings.HasPrefix(line, StartMarker), "leftover start marker: %q", line)
		assert.False(t, strings.HasPrefix(line, EndMarker), "leftover end marker: %q", line)
		assert.NotEqual(t, SeparatorMarker, strings.TrimSpace(line))
	}
	assert.Equal(t, 0, Count(res.Text))
}

func TestResolvePreservesCarriageReturns(t *testing.T) {
	t.Parallel()
	// CRLF content lines keep their trailing CR; marker lines are
	// recognized through trimming but never emitted.
	input := "keep\r\n<<<<<<< a\r\nours\r\n=======\r\ntheirs\r\n>>>>>>> b\r\nend\r"
	res, err := Resolve(input, Current)
	require.NoError(t, err)
	assert.Equal(t, "keep\r\nours\r\nend\r", res.Text)
}

func TestCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, Count(""))
	assert.Equal(t, 0, Count("plain\ntext"))
	assert.Equal(t, 1, Count(singleConflict))
	// Malformed start markers still count.
	assert.Equal(t, 2, Count("<<<<<<< a\nx\n<<<<<<< b"))
}

func TestHasMarkers(t *testing.T) {
	t.Parallel()
	assert.True(t, HasMarkers(singleConflict))
	assert.False(t, HasMarkers("plain text"))
	assert.False(t, HasMarkers("<<<<<<< a\nonly a start"))
	// Documented heuristic weakness: unpaired markers anywhere in the
	// text satisfy the containment check.
	assert.True(t, HasMarkers(">>>>>>> z\n=======\n<<<<<<< a"))
}

func TestScan(t *testing.T) {
	t.Parallel()
	regions := Scan(singleConflict)
	require.Len(t, regions, 1)

	r := regions[0]
	assert.Equal(t, 1, r.StartLine)
	assert.Equal(t, 3, r.SeparatorLine)
	assert.Equal(t, 5, r.EndLine)
	assert.Equal(t, []string{"A"}, r.CurrentLines)
	assert.Equal(t, []string{"B"}, r.IncomingLines)
	assert.Equal(t, "feature", r.CurrentLabel)
	assert.Equal(t, "main", r.IncomingLabel)
}

func TestScanSkipsMalformedStart(t *testing.T) {
	t.Parallel()
	input := "<<<<<<< orphan\nstuff\n" + singleConflict
	regions := Scan(input)
	require.Len(t, regions, 1)
	assert.Equal(t, "feature", regions[0].CurrentLabel)
}

func TestScanMatchesResolvedCount(t *testing.T) {
	t.Parallel()
	res, err := Resolve(singleConflict, Current)
	require.NoError(t, err)
	assert.Equal(t, len(Scan(singleConflict)), res.Resolved)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"current", Current, false},
		{"ours", Current, false},
		{"Incoming", Incoming, false},
		{"theirs", Incoming, false},
		{" both ", Both, false},
		{"mine", Current, true},
		{"", Current, true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
