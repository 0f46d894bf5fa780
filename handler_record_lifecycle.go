package tablegate

import (
	"net/http"
	"time"
)

// deactiveColumn marks soft-deleted rows. Deactivation stamps it with the
// current time; reactivation clears it back to NULL. Rows stay queryable
// either way, callers filter on the column when they care.
const deactiveColumn = "deactive_at"

// handleRecordDeactivate soft-deletes the record matching the primary key.
func (a *App) handleRecordDeactivate(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	id := r.PathValue("id")

	stamp := time.Now().UTC().Format(time.RFC3339)
	updated, err := a.client.Table(table).Eq(primaryKeyColumn, id).Update(Record{deactiveColumn: stamp})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteDataMessage(w, http.StatusOK, updated, "record deactivated")
}

// handleRecordReactivate clears the soft-delete mark on the record matching
// the primary key.
func (a *App) handleRecordReactivate(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	id := r.PathValue("id")

	updated, err := a.client.Table(table).Eq(primaryKeyColumn, id).Update(Record{deactiveColumn: nil})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteDataMessage(w, http.StatusOK, updated, "record reactivated")
}
