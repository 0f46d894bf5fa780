package tablegate

import "net/http"

// handleRecordsList selects all records from a table. Every query-string
// parameter becomes an equality filter; filters are AND-combined. All filter
// values are strings and compared as submitted.
func (a *App) handleRecordsList(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	q := a.client.Table(table)
	for column, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		q = q.Eq(column, values[0])
	}

	records, err := q.Find()
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteRecords(w, records)
}
