package tablegate

import "net/http"

// handleRecordView returns a single record by primary key equality.
func (a *App) handleRecordView(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	id := r.PathValue("id")

	record, err := a.client.Table(table).Eq(primaryKeyColumn, id).First()
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, record)
}
