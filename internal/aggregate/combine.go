package aggregate

import (
	"github.com/jonathan/laredo-harvester/internal/types"
)

// Group is all raw records sharing one document number, in first-seen order.
type Group struct {
	DocNumber string
	Records   []types.RawDocumentRecord
}

// GroupByDocNumber groups raw records by document number, preserving
// first-seen group order and first-seen record order within each group.
func GroupByDocNumber(records []types.RawDocumentRecord) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		i, ok := index[r.DocNumber]
		if !ok {
			i = len(groups)
			index[r.DocNumber] = i
			groups = append(groups, Group{DocNumber: r.DocNumber})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Combine emits one wide record per group. The party series is sized by the
// fixed cap (truncate beyond it, pad below it); the address and parcel series
// are sized by the maximum count observed across all groups in this pass, so
// every output row shares the same column shape. A group with no detail still
// emits a record with all address/parcel slots empty.
func Combine(groups []Group, details map[string]types.DetailSupplement, partyCap int) []types.AggregatedRecord {
	maxAddresses, maxParcels := 0, 0
	for _, g := range groups {
		d := details[g.DocNumber]
		if len(d.Addresses) > maxAddresses {
			maxAddresses = len(d.Addresses)
		}
		if len(d.Parcels) > maxParcels {
			maxParcels = len(d.Parcels)
		}
	}

	out := make([]types.AggregatedRecord, 0, len(groups))
	for _, g := range groups {
		d := details[g.DocNumber]

		parties := make([]string, 0, partyCap)
		for _, r := range g.Records {
			if len(parties) == partyCap {
				break
			}
			parties = append(parties, r.Party)
		}

		out = append(out, types.AggregatedRecord{
			Base:      g.Records[0],
			Parties:   padTo(parties, partyCap),
			Addresses: padTo(d.Addresses, maxAddresses),
			Parcels:   padTo(d.Parcels, maxParcels),
		})
	}
	return out
}

// padTo returns values extended with empty strings up to n. Values longer
// than n are truncated.
func padTo(values []string, n int) []string {
	out := make([]string, n)
	copy(out, values)
	return out
}
