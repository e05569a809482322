// Package types provides type definitions for structured data used throughout the laredo-harvester system.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString decodes a JSON value that the portal emits sometimes as a string
// and sometimes as a number, normalizing it to its textual form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		// Unexpected shape; keep the raw text rather than failing the
		// whole payload decode.
		*f = FlexString(trimmed)
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// PageCount models the portal's page-count field, which arrives as either a
// number or a free-form string. When Valid is true the numeric value is
// authoritative; otherwise Raw carries the original text.
type PageCount struct {
	Value int
	Valid bool
	Raw   string
}

// UnmarshalJSON accepts a JSON number, a numeric string, or any other string.
func (p *PageCount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*p = PageCount{}
		return nil
	}
	var raw string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
	} else {
		raw = string(trimmed)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		*p = PageCount{Value: n, Valid: true}
		return nil
	}
	*p = PageCount{Raw: raw}
	return nil
}

// MarshalJSON emits a number when the count parsed, else the raw string.
func (p PageCount) MarshalJSON() ([]byte, error) {
	if p.Valid {
		return json.Marshal(p.Value)
	}
	return json.Marshal(p.Raw)
}

// String renders the count for display.
func (p PageCount) String() string {
	if p.Valid {
		return strconv.Itoa(p.Value)
	}
	return p.Raw
}

// CapturedDocument is one entry of the search payload recovered from the
// browser session's network traffic. Field names mirror the portal's JSON.
type CapturedDocument struct {
	UserDocNo           FlexString      `json:"userDocNo"`
	PartyOne            string          `json:"partyOne"`
	PartyOneType        string          `json:"partyOneType"`
	BookPage            string          `json:"bookPage"`
	DocDate             string          `json:"docDate"`
	DocRecordedDateTime string          `json:"docRecordedDateTime"`
	DocType             string          `json:"docType"`
	AssocDocSummary     string          `json:"assocDocSummary"`
	LegalSummary        string          `json:"legalSummary"`
	Consideration       *json.Number    `json:"consideration"`
	Pages               PageCount       `json:"pages"`
	SearchDocID         json.RawMessage `json:"searchDocId"`
}

// SearchCapture is one search's raw yield: the documents the portal returned
// plus the Authorization credential observed on the session's own requests.
// Both fields may legitimately be empty.
type SearchCapture struct {
	Documents []CapturedDocument
	AuthToken string
}

// RawDocumentRecord is one cleaned search-result row, pre-aggregation. The
// same document number may produce several of these (one per party mention).
type RawDocumentRecord struct {
	ID            string    `json:"id"`
	DocNumber     string    `json:"Doc Number"`
	Party         string    `json:"Party"`
	BookPage      string    `json:"Book & Page"`
	DocDate       string    `json:"Doc Date"`
	RecordedDate  string    `json:"Recorded Date"`
	DocType       string    `json:"Doc Type"`
	AssocDoc      string    `json:"Assoc Doc"`
	LegalSummary  string    `json:"Legal Summary"`
	Consideration string    `json:"Consideration"`
	Pages         PageCount `json:"Pages"`
}

// DetailSupplement is the enrichment payload for one document: address and
// parcel descriptions in the order the detail endpoint returned them.
type DetailSupplement struct {
	Addresses []string `json:"addresses"`
	Parcels   []string `json:"parcels"`
}

// DateFallback carries dates read from the rendered results table, used only
// to patch rows whose captured payload lacked them.
type DateFallback struct {
	DocDate      string
	RecordedDate string
}

// AggregatedRecord is the final wide-format output row: the base fields of
// the first raw record in a document-number group, with the variable-length
// party/address/parcel collections fanned out into numbered columns.
//
// Parties always has length equal to the configured party cap. Addresses and
// Parcels are padded to the maximum count observed across the jurisdiction
// pass, so every row in one pass shares the same column shape.
type AggregatedRecord struct {
	Base      RawDocumentRecord
	Parties   []string
	Addresses []string
	Parcels   []string
}

// MarshalJSON emits the columns in their fixed export order:
// id, Doc Number, Party1..M, Book & Page, Doc Date, Recorded Date, Doc Type,
// Assoc Doc, Legal Summary, Consideration, Pages, Address1..A, Parcel1..P.
func (r AggregatedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	fields := []struct {
		key   string
		value any
	}{
		{"id", r.Base.ID},
		{"Doc Number", r.Base.DocNumber},
	}
	for _, f := range fields {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	for i, p := range r.Parties {
		if err := write(fmt.Sprintf("Party%d", i+1), p); err != nil {
			return nil, err
		}
	}
	base := []struct {
		key   string
		value any
	}{
		{"Book & Page", r.Base.BookPage},
		{"Doc Date", r.Base.DocDate},
		{"Recorded Date", r.Base.RecordedDate},
		{"Doc Type", r.Base.DocType},
		{"Assoc Doc", r.Base.AssocDoc},
		{"Legal Summary", r.Base.LegalSummary},
		{"Consideration", r.Base.Consideration},
		{"Pages", r.Base.Pages},
	}
	for _, f := range base {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	for i, a := range r.Addresses {
		if err := write(fmt.Sprintf("Address%d", i+1), a); err != nil {
			return nil, err
		}
	}
	for i, p := range r.Parcels {
		if err := write(fmt.Sprintf("Parcel%d", i+1), p); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
