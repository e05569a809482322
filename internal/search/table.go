package search

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/laredo-harvester/internal/types"
)

// Rendered-table and normalized date layouts. The portal renders doc dates
// date-only and recorded dates with a time component, which sometimes also
// degrades to date-only.
const (
	renderedDateLayout     = "Jan 2, 2006"
	renderedDateTimeLayout = "Jan 2, 2006, 3:04 PM"
	outputDateLayout       = "01/02/2006"
	outputDateTimeLayout   = "01/02/2006, 03:04 PM"
)

// ReadVisibleDates reads the currently rendered results table and maps
// document number to the dates shown there. Used only to patch rows whose
// captured payload lacked dates; any failure degrades to an empty map.
func (d *Driver) ReadVisibleDates(ctx context.Context) map[string]types.DateFallback {
	var html string
	attemptCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := chromedp.Run(attemptCtx, chromedp.OuterHTML("table", &html, chromedp.ByQuery)); err != nil {
		return map[string]types.DateFallback{}
	}
	return parseVisibleDates(html)
}

// parseVisibleDates builds the doc-number → dates map from the table's HTML.
// If the document-number, doc-date, or recorded-date column cannot be
// identified, the map is empty rather than an error.
func parseVisibleDates(html string) map[string]types.DateFallback {
	out := make(map[string]types.DateFallback)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}

	cols := make(map[string]int)
	doc.Find("table tr").First().Find("th,td").Each(func(i int, s *goquery.Selection) {
		name := normalizeHeader(s.Text())
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	})

	docNoCol, okNo := findColumn(cols, "doc number")
	docDateCol, okDoc := findColumn(cols, "doc date")
	recordedCol, okRec := findColumn(cols, "recorded date")
	if !okNo || !okDoc || !okRec {
		return out
	}

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		docNo := strings.TrimSpace(cells.Eq(docNoCol).Text())
		if docNo == "" {
			return
		}
		out[docNo] = types.DateFallback{
			DocDate:      normalizeDocDate(cells.Eq(docDateCol).Text()),
			RecordedDate: normalizeRecordedDate(cells.Eq(recordedCol).Text()),
		}
	})

	return out
}

// normalizeHeader lowercases and collapses whitespace so header matching
// survives cosmetic markup changes.
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func findColumn(cols map[string]int, name string) (int, bool) {
	if i, ok := cols[name]; ok {
		return i, true
	}
	for k, i := range cols {
		if strings.Contains(k, name) {
			return i, true
		}
	}
	return 0, false
}

func normalizeDocDate(raw string) string {
	t, err := time.Parse(renderedDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return t.Format(outputDateLayout)
}

func normalizeRecordedDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(renderedDateTimeLayout, raw); err == nil {
		return t.Format(outputDateTimeLayout)
	}
	if t, err := time.Parse(renderedDateLayout, raw); err == nil {
		return t.Format(outputDateTimeLayout)
	}
	return ""
}
