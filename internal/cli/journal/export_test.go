package journal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeplan/internal/models"
)

func sampleEntries() []models.JournalEntry {
	feedback := "Great to see positive momentum!"
	return []models.JournalEntry{
		{At: time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local), Content: "grateful, and accomplished", Feedback: &feedback},
		{At: time.Date(2024, 1, 15, 21, 0, 0, 0, time.Local), Content: "draft \"quoted\""},
		{At: time.Date(2024, 1, 16, 7, 5, 0, 0, time.Local), Content: "new day"},
	}
}

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a,b", "\"a,b\""},
		{"say \"hi\"", "\"say \"\"hi\"\"\""},
		{"line1\nline2", "\"line1\nline2\""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, csvEscape(tt.in), "input %q", tt.in)
	}
}

func TestExport_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleEntries(), FormatMarkdown))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Journal\n"))
	assert.Equal(t, 1, strings.Count(out, "## 2024-01-15\n"))
	assert.Contains(t, out, "## 2024-01-16")
	assert.Contains(t, out, "### 09:30AM\n\ngrateful, and accomplished")
	assert.Contains(t, out, "> Great to see positive momentum!")
	assert.Less(t, strings.Index(out, "09:30AM"), strings.Index(out, "09:00PM"))
}

func TestExport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleEntries(), FormatJSON))

	var got []exportEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-15", got[0].Date)
	assert.Equal(t, "09:30AM", got[0].Time)
	assert.Equal(t, "Great to see positive momentum!", got[0].Feedback)
	assert.Empty(t, got[1].Feedback)
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleEntries(), FormatCSV))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,time,content,feedback", lines[0])
	assert.Equal(t, "2024-01-15,09:30AM,\"grateful, and accomplished\",Great to see positive momentum!", lines[1])
	assert.Equal(t, "2024-01-15,09:00PM,\"draft \"\"quoted\"\"\",", lines[2])
}

func TestExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Export(&buf, nil, "xml"))
}

func TestFilterRange(t *testing.T) {
	entries := sampleEntries()

	got, err := filterRange(entries, "2024-01-16", "")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = filterRange(entries, "", "2024-01-15")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = filterRange(entries, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = filterRange(entries, "2024-01-16", "2024-01-15")
	assert.Error(t, err)

	_, err = filterRange(entries, "01/15/2024", "")
	assert.Error(t, err)
}
