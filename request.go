package tablegate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// decodeBody reads the request body as a JSON object.
// An absent or empty body, or an empty object, is a validation error: create
// and update must not reach the database without data.
func decodeBody(r *http.Request) (Record, error) {
	var rec Record
	err := json.NewDecoder(r.Body).Decode(&rec)
	switch {
	case errors.Is(err, io.EOF):
		return nil, NewE(KindValidation, "request body required")
	case err != nil:
		return nil, Wrap(KindValidation, "invalid JSON body", err)
	}
	if len(rec) == 0 {
		return nil, NewE(KindValidation, "request body required")
	}
	return rec, nil
}
