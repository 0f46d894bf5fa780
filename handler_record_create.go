package tablegate

import "net/http"

// handleRecordCreate inserts the JSON body as a new record.
// The body is validated before any database call is made.
func (a *App) handleRecordCreate(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	created, err := a.client.Table(table).Insert(body)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteDataMessage(w, http.StatusCreated, created, "record created")
}
