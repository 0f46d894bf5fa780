package tablegate

import "net/http"

// handleHealth reports that the API is running.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteMessage(w, http.StatusOK, "API is running")
}
