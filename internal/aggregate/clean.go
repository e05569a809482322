// Package aggregate turns a search's captured document entries into cleaned
// rows and folds repeated document numbers into fixed-width wide records.
package aggregate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/laredo-harvester/internal/types"
)

// Portal timestamp and normalized output layouts.
const (
	portalTimestampLayout = "2006-01-02T15:04:05"
	outputDateLayout      = "01/02/2006"
	outputDateTimeLayout  = "01/02/2006, 03:04 PM"
)

// CleanResults converts captured entries into raw records. Sequence ids are
// assigned in capture order as "<slug>-<n>" and are stable only for this
// jurisdiction pass. Entries that cannot be cleaned are skipped, never fatal.
func CleanResults(jurisdictionSlug string, docs []types.CapturedDocument) []types.RawDocumentRecord {
	out := make([]types.RawDocumentRecord, 0, len(docs))
	for i, doc := range docs {
		record := types.RawDocumentRecord{
			ID:           fmt.Sprintf("%s-%d", jurisdictionSlug, i+1),
			DocNumber:    string(doc.UserDocNo),
			Party:        formatParty(doc.PartyOne, doc.PartyOneType),
			BookPage:     doc.BookPage,
			DocDate:      formatPortalTimestamp(doc.DocDate, outputDateLayout),
			RecordedDate: formatPortalTimestamp(doc.DocRecordedDateTime, outputDateTimeLayout),
			DocType:      doc.DocType,
			AssocDoc:     doc.AssocDocSummary,
			LegalSummary: doc.LegalSummary,
			Pages:        doc.Pages,
		}
		if doc.Consideration != nil {
			record.Consideration = "$" + doc.Consideration.String()
		}
		out = append(out, record)
	}
	return out
}

// ApplyDateFallback patches empty date fields from the rendered-table map.
// A non-empty captured value always wins over the fallback.
func ApplyDateFallback(records []types.RawDocumentRecord, fallback map[string]types.DateFallback) {
	for i := range records {
		dates, ok := fallback[records[i].DocNumber]
		if !ok {
			continue
		}
		if records[i].DocDate == "" {
			records[i].DocDate = dates.DocDate
		}
		if records[i].RecordedDate == "" {
			records[i].RecordedDate = dates.RecordedDate
		}
	}
}

// IDMap maps each document number to the portal's internal document id,
// keeping the first-seen id per number.
func IDMap(docs []types.CapturedDocument) map[string]json.RawMessage {
	m := make(map[string]json.RawMessage)
	for _, d := range docs {
		docNo := string(d.UserDocNo)
		if docNo == "" || len(d.SearchDocID) == 0 {
			continue
		}
		if _, ok := m[docNo]; !ok {
			m[docNo] = d.SearchDocID
		}
	}
	return m
}

func formatParty(name, role string) string {
	if role != "" {
		return fmt.Sprintf("%s (%s)", name, role)
	}
	return name
}

// formatPortalTimestamp normalizes the portal's ISO-ish timestamp, returning
// "" for anything unparseable so the table fallback can fill the gap.
func formatPortalTimestamp(raw, layout string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(portalTimestampLayout, raw)
	if err != nil {
		return ""
	}
	return t.Format(layout)
}
