package parse

import (
	"fmt"
	"strings"
	"time"
)

// NoteEntry is a single timestamped free-text note.
type NoteEntry struct {
	At     *time.Time // nil for legacy lines without a readable timestamp
	Author string
	Text   string
}

// NoteLog is the in-memory form of a ticket's append-only note log. The
// newline-delimited "[hh:mm AM] author: text" blob exists only at the
// persistence boundary; logic appends entries and renders, never edits.
type NoteLog []NoteEntry

// noteTimeLayout matches the stamp the board has always written.
const noteTimeLayout = "03:04 PM"

// ParseNoteLog converts the persisted blob into entries. Lines that do not
// carry a readable "[hh:mm AM]" stamp are kept as bare-text entries rather
// than dropped; the log is operator data and must survive format drift.
func ParseNoteLog(blob string) NoteLog {
	if strings.TrimSpace(blob) == "" {
		return nil
	}
	var log NoteLog
	for _, line := range strings.Split(blob, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		log = append(log, parseLine(line))
	}
	return log
}

func parseLine(line string) NoteEntry {
	rest, stamp, ok := splitStamp(line)
	if !ok {
		return NoteEntry{Text: line}
	}
	entry := NoteEntry{At: stamp}
	if author, text, found := strings.Cut(rest, ": "); found && author != "" {
		entry.Author = author
		entry.Text = text
	} else {
		entry.Text = rest
	}
	return entry
}

func splitStamp(line string) (rest string, at *time.Time, ok bool) {
	if !strings.HasPrefix(line, "[") {
		return "", nil, false
	}
	close := strings.Index(line, "] ")
	if close < 0 {
		return "", nil, false
	}
	parsed, err := time.Parse(noteTimeLayout, line[1:close])
	if err != nil {
		return "", nil, false
	}
	return line[close+2:], &parsed, true
}

// Append returns the log with a new entry added. Prior entries are never
// rewritten.
func (l NoteLog) Append(at time.Time, author, text string) NoteLog {
	stamped := at
	return append(l, NoteEntry{At: &stamped, Author: author, Text: text})
}

// Render serializes the log back to the persisted blob form.
func (l NoteLog) Render() string {
	lines := make([]string, 0, len(l))
	for _, e := range l {
		lines = append(lines, e.renderLine())
	}
	return strings.Join(lines, "\n")
}

func (e NoteEntry) renderLine() string {
	if e.At == nil {
		return e.Text
	}
	if e.Author != "" {
		return fmt.Sprintf("[%s] %s: %s", e.At.Format(noteTimeLayout), e.Author, e.Text)
	}
	return fmt.Sprintf("[%s] %s", e.At.Format(noteTimeLayout), e.Text)
}

// AppendToBlob is the persistence-boundary helper used when building a column
// patch: parse, append, render. Callers that already hold a NoteLog should
// use Append directly.
func AppendToBlob(blob string, at time.Time, author, text string) string {
	return ParseNoteLog(blob).Append(at, author, text).Render()
}

// Latest returns the most recent entry, if any.
func (l NoteLog) Latest() (NoteEntry, bool) {
	if len(l) == 0 {
		return NoteEntry{}, false
	}
	return l[len(l)-1], true
}
