package runlog

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary renders the per-jurisdiction outcome table shown at the end of a
// run.
func (r *RunContext) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Jurisdiction", "Connected", "Data", "Records", "Error"})
	for _, name := range r.order {
		ev := r.events[name]
		t.AppendRow(table.Row{name, ev.Connected, ev.DataJSON, ev.Records, ev.Error})
	}
	t.AppendFooter(table.Row{"total", "", "", len(r.combined), ""})
	return t.Render()
}
