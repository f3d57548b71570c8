package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/qa-keywords/internal/match"
	"github.com/rcliao/qa-keywords/internal/model"
	"github.com/rcliao/qa-keywords/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T) (*gin.Engine, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewRouter(NewHandlers(s, nil)), s
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func entryPath(scope, keyword string) string {
	return "/v1/scopes/" + url.PathEscape(scope) + "/entries/" + url.PathEscape(keyword)
}

func TestHandlers_Health(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandlers_Metrics(t *testing.T) {
	router, _ := setupTestRouter(t)

	doJSON(t, router, http.MethodGet, entryPath("g", "k"), nil)
	w := doJSON(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "qa_store_operations_total")
}

func TestHandlers_Lifecycle(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/scopes/g1/entries", AddRequest{
		Keyword: "你好",
		Values:  []store.ValueInput{{Type: model.ValueText, Content: "你好呀"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added AddResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.NotEmpty(t, added.EntryID)

	w = doJSON(t, router, http.MethodGet, entryPath("g1", "你好"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"keyword":"你好","values":[{"type":"TEXT","content":"你好呀","order":0}]}`, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/v1/scopes/g1/index", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"你好":[{"type":"TEXT","content":"你好呀","order":0}]}`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/v1/scopes/g1/match", MatchRequest{Text: "大家你好"})
	require.Equal(t, http.StatusOK, w.Code)
	var matched MatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matched))
	require.Len(t, matched.Hits, 1)
	assert.Equal(t, match.Hit{Keyword: "你好", Values: []model.ResolvedValue{
		{Type: model.ValueText, Content: "你好呀", Order: 0},
	}}, matched.Hits[0])

	w = doJSON(t, router, http.MethodGet, "/v1/scopes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"scope":"g1","entries":1,"keywords":1}]`, w.Body.String())

	w = doJSON(t, router, http.MethodDelete, entryPath("g1", "你好"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"outcome":"deleted","affected":1}`, w.Body.String())

	w = doJSON(t, router, http.MethodDelete, entryPath("g1", "你好"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"outcome":"not_found","affected":0}`, w.Body.String())

	w = doJSON(t, router, http.MethodGet, entryPath("g1", "你好"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"keyword":"你好","values":[]}`, w.Body.String())
}

func TestHandlers_AddInvalid(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"no values", AddRequest{Keyword: "k"}},
		{"empty content", AddRequest{Keyword: "k", Values: []store.ValueInput{{Content: ""}}}},
		{"bad status", AddRequest{Keyword: "k", Status: "GONE", Values: []store.ValueInput{{Content: "x"}}}},
		{"malformed json", "not an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/v1/scopes/g/entries", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandlers_UpdatePriority(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/scopes/g/entries", AddRequest{
		Keyword: "k", Priority: 1, Values: []store.ValueInput{{Content: "first"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/v1/scopes/g/entries", AddRequest{
		Keyword: "k", Priority: 2, Values: []store.ValueInput{{Content: "second"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPatch, entryPath("g", "k"), map[string]interface{}{"status": "INACTIVE"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"affected":2}`, w.Body.String())

	w = doJSON(t, router, http.MethodGet, entryPath("g", "k"), nil)
	assert.JSONEq(t, `{"keyword":"k","values":[]}`, w.Body.String())

	w = doJSON(t, router, http.MethodPatch, entryPath("g", "k"), map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_StoreClosed(t *testing.T) {
	router, s := setupTestRouter(t)
	require.NoError(t, s.Close())

	w := doJSON(t, router, http.MethodGet, "/v1/scopes/g/index", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandlers_SlashInScopeAndKeyword(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		scope   string
		keyword string
	}{
		{"g", "a/b"},
		{"team/ops", "deploy"},
		{"team/ops", "/start"},
	}

	for _, tt := range tests {
		t.Run(tt.scope+" "+tt.keyword, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/v1/scopes/"+url.PathEscape(tt.scope)+"/entries", AddRequest{
				Keyword: tt.keyword,
				Values:  []store.ValueInput{{Content: "reply"}},
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			w = doJSON(t, router, http.MethodGet, entryPath(tt.scope, tt.keyword), nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var got GetResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.keyword, got.Keyword)
			require.Len(t, got.Values, 1)
			assert.Equal(t, "reply", got.Values[0].Content)

			w = doJSON(t, router, http.MethodPatch, entryPath(tt.scope, tt.keyword), map[string]interface{}{"priority": 3})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, `{"affected":1}`, w.Body.String())

			w = doJSON(t, router, http.MethodGet, "/v1/scopes/"+url.PathEscape(tt.scope)+"/index", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "reply")

			w = doJSON(t, router, http.MethodDelete, entryPath(tt.scope, tt.keyword), nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, `{"outcome":"deleted","affected":1}`, w.Body.String())

			w = doJSON(t, router, http.MethodDelete, entryPath(tt.scope, tt.keyword), nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"outcome":"not_found","affected":0}`, w.Body.String())
		})
	}
}
