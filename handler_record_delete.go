package tablegate

import "net/http"

// handleRecordDelete removes the record matching the primary key.
func (a *App) handleRecordDelete(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	id := r.PathValue("id")

	if err := a.client.Table(table).Eq(primaryKeyColumn, id).Delete(); err != nil {
		WriteError(w, err)
		return
	}
	WriteMessage(w, http.StatusOK, "record deleted")
}
