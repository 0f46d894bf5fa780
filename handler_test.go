package tablegate_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablegate/tablegate"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestClient(t *testing.T) *tablegate.Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gateway.db")
	db, err := gorm.Open(gormsqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		status TEXT,
		deactive_at TEXT
	)`).Error)
	return tablegate.NewClient(db, "sqlite")
}

func newTestHandler(t *testing.T) (http.Handler, *tablegate.Client) {
	t.Helper()
	client := newTestClient(t)
	app := tablegate.New(tablegate.Config{BasePath: "/api"}, client)
	return app.Handler(), client
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "response must be JSON: %s", rr.Body.String())
	}
	return rr, env
}

func TestHandler_Health(t *testing.T) {
	h, _ := newTestHandler(t)

	rr, env := doRequest(t, h, "GET", "/api/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, env["success"])
	assert.NotEmpty(t, env["message"])
}

func TestHandler_ListEmptyTable(t *testing.T) {
	h, _ := newTestHandler(t)

	rr, env := doRequest(t, h, "GET", "/api/tasks", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, env["success"])
	data, ok := env["data"].([]any)
	require.True(t, ok, "data must be a JSON array, got %T", env["data"])
	assert.Empty(t, data)
	assert.Equal(t, float64(0), env["count"])
}

func TestHandler_Create(t *testing.T) {
	h, _ := newTestHandler(t)

	rr, env := doRequest(t, h, "POST", "/api/tasks", `{"title":"buy milk","status":"pending"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, true, env["success"])
	data, ok := env["data"].(map[string]any)
	require.True(t, ok, "data must be a JSON object")
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "buy milk", data["title"])
	assert.Equal(t, "pending", data["status"])
}

func TestHandler_CreateInvalidBody(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "no body", body: ""},
		{name: "empty object", body: `{}`},
		{name: "malformed json", body: `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, env := doRequest(t, h, "POST", "/api/tasks", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, false, env["success"])
			assert.NotEmpty(t, env["error"])
			_, hasData := env["data"]
			assert.False(t, hasData, "failure envelope must not carry data")
		})
	}

	// No side effect on invalid input
	rr, env := doRequest(t, h, "GET", "/api/tasks", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(0), env["count"])
}

func TestHandler_GetOne(t *testing.T) {
	h, _ := newTestHandler(t)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"buy milk","status":"pending"}`)

	t.Run("found", func(t *testing.T) {
		rr, env := doRequest(t, h, "GET", "/api/tasks/1", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, env["success"])
		data := env["data"].(map[string]any)
		assert.Equal(t, "buy milk", data["title"])
	})

	t.Run("not found", func(t *testing.T) {
		rr, env := doRequest(t, h, "GET", "/api/tasks/999", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, false, env["success"])
		assert.Contains(t, env["error"], "not found")
		_, hasData := env["data"]
		assert.False(t, hasData)
	})
}

func TestHandler_ListWithFilters(t *testing.T) {
	h, _ := newTestHandler(t)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"buy milk","status":"pending"}`)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"walk dog","status":"done"}`)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"water plants","status":"pending"}`)

	t.Run("single filter", func(t *testing.T) {
		rr, env := doRequest(t, h, "GET", "/api/tasks?status=pending", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, float64(2), env["count"])
		for _, item := range env["data"].([]any) {
			assert.Equal(t, "pending", item.(map[string]any)["status"])
		}
	})

	t.Run("filters are AND-combined", func(t *testing.T) {
		rr, env := doRequest(t, h, "GET", "/api/tasks?status=pending&title=walk+dog", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, float64(0), env["count"])
	})

	t.Run("no match is success", func(t *testing.T) {
		rr, env := doRequest(t, h, "GET", "/api/tasks?status=archived", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, env["success"])
		assert.Empty(t, env["data"].([]any))
	})
}

func TestHandler_Update(t *testing.T) {
	h, _ := newTestHandler(t)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"buy milk","status":"pending"}`)

	t.Run("updates and returns the stored record", func(t *testing.T) {
		rr, env := doRequest(t, h, "PUT", "/api/tasks/1", `{"status":"done"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, env["success"])
		data := env["data"].(map[string]any)
		assert.Equal(t, "done", data["status"])
		assert.Equal(t, "buy milk", data["title"])
	})

	t.Run("empty body is rejected before any change", func(t *testing.T) {
		rr, env := doRequest(t, h, "PUT", "/api/tasks/1", `{}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "request body required", env["error"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rr, env := doRequest(t, h, "PUT", "/api/tasks/999", `{"status":"done"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, false, env["success"])
	})
}

func TestHandler_Delete(t *testing.T) {
	h, _ := newTestHandler(t)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"buy milk","status":"pending"}`)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"walk dog","status":"done"}`)

	rr, env := doRequest(t, h, "DELETE", "/api/tasks/1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "record deleted", env["message"])
	_, hasData := env["data"]
	assert.False(t, hasData)

	// Deleted row is gone
	rr, _ = doRequest(t, h, "GET", "/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// The other row is untouched
	rr, env = doRequest(t, h, "GET", "/api/tasks", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), env["count"])
	remaining := env["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "walk dog", remaining["title"])

	t.Run("delete unknown id", func(t *testing.T) {
		rr, env := doRequest(t, h, "DELETE", "/api/tasks/999", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, false, env["success"])
	})
}

func TestHandler_DeactivateReactivate(t *testing.T) {
	h, _ := newTestHandler(t)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"buy milk","status":"pending"}`)

	rr, env := doRequest(t, h, "POST", "/api/tasks/1/deactivate", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	data := env["data"].(map[string]any)
	assert.NotNil(t, data["deactive_at"])

	rr, env = doRequest(t, h, "POST", "/api/tasks/1/reactivate", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	data = env["data"].(map[string]any)
	assert.Nil(t, data["deactive_at"])

	t.Run("unknown id", func(t *testing.T) {
		rr, _ := doRequest(t, h, "POST", "/api/tasks/999/deactivate", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandler_InvalidIdentifiers(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("table name", func(t *testing.T) {
		rr, env := doRequest(t, h, "GET", "/api/bad-table", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, false, env["success"])
	})

	t.Run("filter column", func(t *testing.T) {
		rr, env := doRequest(t, h, "GET", "/api/tasks?bad%3Bcol=1", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, false, env["success"])
	})

	t.Run("record key", func(t *testing.T) {
		rr, env := doRequest(t, h, "POST", "/api/tasks", `{"bad;col":"x"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, false, env["success"])
	})
}

func TestHandler_EnvelopeShape(t *testing.T) {
	h, _ := newTestHandler(t)
	doRequest(t, h, "POST", "/api/tasks", `{"title":"buy milk","status":"pending"}`)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "health", method: "GET", target: "/api/health"},
		{name: "list", method: "GET", target: "/api/tasks"},
		{name: "get", method: "GET", target: "/api/tasks/1"},
		{name: "get missing", method: "GET", target: "/api/tasks/999"},
		{name: "create invalid", method: "POST", target: "/api/tasks", body: "{}"},
		{name: "delete missing", method: "DELETE", target: "/api/tasks/999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, env := doRequest(t, h, tt.method, tt.target, tt.body)

			success, ok := env["success"].(bool)
			require.True(t, ok, "every envelope carries the success boolean")

			_, hasError := env["error"]
			assert.Equal(t, !success, hasError, "error present iff success is false")
			if !success {
				_, hasData := env["data"]
				assert.False(t, hasData, "failures never carry data")
			}
		})
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("OPTIONS", "/api/tasks", nil)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestHandler_RequestID(t *testing.T) {
	h, _ := newTestHandler(t)

	rr, _ := doRequest(t, h, "GET", "/api/health", "")

	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
