package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsTableHTML = `
<table>
	<tr>
		<th> Doc  Number </th><th>Party</th><th>Doc Date</th><th>Recorded Date</th>
	</tr>
	<tr>
		<td>D1</td><td>Alice</td><td>Sep 10, 2025</td><td>Sep 11, 2025, 2:05 PM</td>
	</tr>
	<tr>
		<td>D2</td><td>Bob</td><td>garbage</td><td>Sep 12, 2025</td>
	</tr>
	<tr>
		<td></td><td>skipped</td><td>Sep 1, 2025</td><td>Sep 1, 2025, 9:00 AM</td>
	</tr>
</table>`

func TestParseVisibleDates(t *testing.T) {
	dates := parseVisibleDates(resultsTableHTML)
	require.Len(t, dates, 2)

	assert.Equal(t, "09/10/2025", dates["D1"].DocDate)
	assert.Equal(t, "09/11/2025, 02:05 PM", dates["D1"].RecordedDate)

	// Unparseable doc date degrades to empty; date-only recorded date still
	// normalizes with a time component.
	assert.Empty(t, dates["D2"].DocDate)
	assert.Equal(t, "09/12/2025, 12:00 AM", dates["D2"].RecordedDate)
}

func TestParseVisibleDates_MissingRequiredColumn(t *testing.T) {
	html := `<table>
		<tr><th>Party</th><th>Doc Date</th></tr>
		<tr><td>Alice</td><td>Sep 10, 2025</td></tr>
	</table>`
	assert.Empty(t, parseVisibleDates(html))
}

func TestParseVisibleDates_NotATable(t *testing.T) {
	assert.Empty(t, parseVisibleDates(`<div>no results</div>`))
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "doc number", normalizeHeader("  Doc\n  Number "))
	assert.Equal(t, "recorded date", normalizeHeader("Recorded  Date"))
}

func TestDocTypeTerm(t *testing.T) {
	tests := []struct {
		name         string
		jurisdiction string
		secondPass   bool
		want         string
	}{
		{"default", "Adams County", false, "Successor"},
		{"jefferson override", "Jefferson County", false, "APPOINTMENT"},
		{"second pass", "Adams County", true, "RESOLUTION"},
		{"second pass beats jefferson", "Jefferson County", true, "RESOLUTION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocTypeTerm(tt.jurisdiction, tt.secondPass))
		})
	}
}

func TestStartDate(t *testing.T) {
	now, err := time.Parse("2006-01-02", "2025-09-10")
	require.NoError(t, err)
	assert.Equal(t, "09042025", StartDate(now, 6))
	assert.Equal(t, "09102025", StartDate(now, 0))
}
