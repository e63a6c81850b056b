package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoteLog(t *testing.T) {
	testCases := []struct {
		name     string
		blob     string
		expected int
	}{
		{"empty blob", "", 0},
		{"whitespace only", "  \n ", 0},
		{"single stamped entry", "[02:15 PM] Maria: customer called", 1},
		{"multiple entries", "[02:15 PM] Maria: called\n[02:40 PM] Juan: car up front", 2},
		{"blank lines skipped", "[02:15 PM] note\n\n[02:20 PM] other", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, ParseNoteLog(tc.blob), tc.expected)
		})
	}
}

func TestParseNoteLog_Fields(t *testing.T) {
	log := ParseNoteLog("[02:15 PM] Maria: customer called back")
	require.Len(t, log, 1)
	require.NotNil(t, log[0].At)
	assert.Equal(t, "Maria", log[0].Author)
	assert.Equal(t, "customer called back", log[0].Text)
	assert.Equal(t, 14, log[0].At.Hour())
	assert.Equal(t, 15, log[0].At.Minute())
}

func TestParseNoteLog_MalformedLinesKept(t *testing.T) {
	log := ParseNoteLog("free text without stamp\n[badstamp] still here\n[02:15 PM] ok")
	require.Len(t, log, 3)
	assert.Nil(t, log[0].At)
	assert.Equal(t, "free text without stamp", log[0].Text)
	assert.Nil(t, log[1].At)
	assert.NotNil(t, log[2].At)
}

func TestAppendIsAppendOnly(t *testing.T) {
	at := time.Date(2026, 3, 14, 14, 15, 0, 0, time.UTC)
	blob := AppendToBlob("", at, "Maria", "keys dropped off")
	assert.Equal(t, "[02:15 PM] Maria: keys dropped off", blob)

	later := at.Add(25 * time.Minute)
	blob2 := AppendToBlob(blob, later, "Juan", "car staged")
	assert.Equal(t, blob+"\n[02:40 PM] Juan: car staged", blob2)

	// The original prefix survives byte-for-byte.
	assert.Contains(t, blob2, blob)
}

func TestRenderRoundTrip(t *testing.T) {
	blob := "[09:05 AM] Desk: dropped off\n[09:30 AM] Fernando: washing"
	assert.Equal(t, blob, ParseNoteLog(blob).Render())
}

func TestLatest(t *testing.T) {
	_, ok := NoteLog(nil).Latest()
	assert.False(t, ok)

	log := ParseNoteLog("[09:05 AM] a\n[09:30 AM] b")
	last, ok := log.Latest()
	assert.True(t, ok)
	assert.Equal(t, "b", last.Text)
}
