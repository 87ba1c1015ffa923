package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/budgetview/internal/budgetapi"
	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/store"
	"github.com/theirongolddev/budgetview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, slices ...model.BudgetSlice) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	for _, s := range slices {
		_, err := st.Add(context.Background(), s)
		require.NoError(t, err)
	}
	return st
}

func newTestServer(t *testing.T, cfg Config, repo Repository) *httptest.Server {
	t.Helper()
	cfg.Logger = testutil.NewTestLogger(t)
	ts := httptest.NewServer(New(cfg, repo).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestBudgetRoundTripsThroughClient(t *testing.T) {
	st := newStore(t,
		model.BudgetSlice{Title: "Food", Budget: 300},
		model.BudgetSlice{Title: "Rent", Budget: 700},
	)
	ts := newTestServer(t, Config{}, st)

	ds, err := budgetapi.NewClient(ts.URL, 0).FetchBudget(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.BudgetSlice{{Title: "Food", Budget: 300}, {Title: "Rent", Budget: 700}}, ds.Slices())
}

func TestEmptyStoreServesEmptyArray(t *testing.T) {
	ts := newTestServer(t, Config{}, newStore(t))

	resp := do(t, http.MethodGet, ts.URL+"/budget", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["myBudget"]))
}

func TestHealthAndHeaders(t *testing.T) {
	ts := newTestServer(t, Config{}, newStore(t))

	get, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	get.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(get)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), RequestIDHeader)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/budget/Rent", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set(RequestIDHeader, "abc")
	pre, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = pre.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, pre.StatusCode)
	assert.Equal(t, "*", pre.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPut, pre.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "abc", pre.Header.Get(RequestIDHeader))
}

func TestWriteEndpoints(t *testing.T) {
	st := newStore(t)
	ts := newTestServer(t, Config{}, st)

	assert.Equal(t, http.StatusCreated, do(t, http.MethodPost, ts.URL+"/budget", `{"title":"Eat out","budget":30}`).StatusCode)
	assert.Equal(t, http.StatusConflict, do(t, http.MethodPost, ts.URL+"/budget", `{"title":"Eat out","budget":5}`).StatusCode)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, http.MethodPost, ts.URL+"/budget", `{"title":"Debt","budget":-1}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, ts.URL+"/budget", `nope`).StatusCode)

	assert.Equal(t, http.StatusOK, do(t, http.MethodPut, ts.URL+"/budget/Eat%20out", `{"budget":45}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPut, ts.URL+"/budget/Eat%20out", `{}`).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPut, ts.URL+"/budget/Rent", `{"budget":1}`).StatusCode)

	slices, err := st.Slices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.BudgetSlice{{Title: "Eat out", Budget: 45}}, slices)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, ts.URL+"/budget/Eat%20out", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, ts.URL+"/budget/Eat%20out", "").StatusCode)
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	st := newStore(t, model.BudgetSlice{Title: "Rent", Budget: 700})
	ts := newTestServer(t, Config{ReadOnly: true}, st)

	writes := []struct{ method, path, body string }{
		{http.MethodPost, "/budget", `{"title":"A","budget":1}`},
		{http.MethodPut, "/budget/Rent", `{"budget":1}`},
		{http.MethodPut, "/budget/Missing", `{"budget":1}`},
		{http.MethodDelete, "/budget/Rent", ""},
	}
	for _, w := range writes {
		resp := do(t, w.method, ts.URL+w.path, w.body)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "%s %s", w.method, w.path)
		assert.Equal(t, http.MethodGet, resp.Header.Get("Allow"))
	}

	slices, err := st.Slices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.BudgetSlice{{Title: "Rent", Budget: 700}}, slices)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, ts.URL+"/budget", "").StatusCode)
}

type brokenRepo struct{ *store.Store }

func (brokenRepo) Slices(context.Context) ([]model.BudgetSlice, error) {
	return nil, errors.New("disk on fire")
}
func (brokenRepo) Count(context.Context) (int, error) { return 0, nil }

func TestStoreFailureIsA500AndRecorded(t *testing.T) {
	srv := New(Config{Logger: testutil.NewTestLogger(t)}, brokenRepo{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	_, err := budgetapi.NewClient(ts.URL, 0).FetchBudget(context.Background())
	assert.ErrorIs(t, err, budgetapi.ErrUnexpectedStatus)

	resp := do(t, http.MethodGet, ts.URL+"/v1/status", "")
	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "disk on fire", st.LastError)
	assert.GreaterOrEqual(t, st.Requests, int64(1))
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(Config{Logger: testutil.NewTestLogger(t)}, newStore(t, model.BudgetSlice{Title: "A", Budget: 1}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	ds, err := budgetapi.NewClient("http://"+ln.Addr().String(), 0).FetchBudget(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, ln.Addr().String(), srv.Addr())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
