package tablegate

import "net/http"

// handleRecordUpdate sets the JSON body's fields on the record matching the
// primary key. The body is validated before any database call is made.
func (a *App) handleRecordUpdate(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	id := r.PathValue("id")

	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	updated, err := a.client.Table(table).Eq(primaryKeyColumn, id).Update(body)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteDataMessage(w, http.StatusOK, updated, "record updated")
}
