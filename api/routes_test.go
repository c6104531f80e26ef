package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-reminder/database"
	"todo-reminder/handler"
	"todo-reminder/model"
	"todo-reminder/reminder"
	"todo-reminder/store"
)

type testServer struct {
	mux     *http.ServeMux
	list    *store.TaskList
	signal  *reminder.Signal
	persist *database.Persistence
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	p := database.NewPersistence(database.NewMemory(), "")
	list := store.New(nil, p, store.Options{})
	signal := reminder.NewSignal(reminder.PermissionDefault, reminder.LogNotifier{}, nil)
	return &testServer{
		mux:     SetupRoutes(handler.NewHandler(list, signal)),
		list:    list,
		signal:  signal,
		persist: p,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, handler.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var resp handler.Response
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func (s *testServer) create(t *testing.T, text string) model.Task {
	t.Helper()

	rec, _ := s.do(t, http.MethodPost, "/api/v1/tasks", handler.CreateTaskRequest{Text: text})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data model.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func order(list *store.TaskList) []string {
	var out []string
	for _, t := range list.Snapshot() {
		out = append(out, t.Text)
	}
	return out
}

func TestCreateTask(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/tasks", handler.CreateTaskRequest{
		Text: "write report", Priority: "high", Date: "2025-06-01", Time: "09:00",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	snap := s.list.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, model.PriorityHigh, snap[0].Priority)
	assert.Equal(t, "2025-06-01T09:00", snap[0].DueString())

	// 已持久化
	assert.Len(t, s.persist.Load(context.Background()), 1)
}

func TestCreateTask_Validation(t *testing.T) {
	s := newTestServer(t)

	for _, req := range []handler.CreateTaskRequest{
		{Text: ""},
		{Text: "x", Date: "2025-06-01"},
		{Text: "x", Date: "2025-06-01", Time: "25:00"},
	} {
		rec, resp := s.do(t, http.MethodPost, "/api/v1/tasks", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	}
	assert.Equal(t, 0, s.list.Len())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleEditDelete(t *testing.T) {
	s := newTestServer(t)
	task := s.create(t, "call mom")

	rec, _ := s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/toggle", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.list.Snapshot()[0].Completed)

	rec, _ = s.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"text": "call dad"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "call dad", s.list.Snapshot()[0].Text)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/tasks/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, s.list.Len())
}

func TestMoveTask(t *testing.T) {
	s := newTestServer(t)
	a := s.create(t, "A")
	s.create(t, "B")
	c := s.create(t, "C")
	s.create(t, "D")

	rec, _ := s.do(t, http.MethodPost, "/api/v1/tasks/"+a.ID+"/move", handler.MoveTaskRequest{TargetID: c.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B", "C", "A", "D"}, order(s.list))

	rec, _ = s.do(t, http.MethodPost, "/api/v1/tasks/"+c.ID+"/move", handler.MoveTaskRequest{End: true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B", "A", "D", "C"}, order(s.list))

	rec, _ = s.do(t, http.MethodPost, "/api/v1/tasks/"+c.ID+"/move", handler.MoveTaskRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/tasks/"+c.ID+"/move", handler.MoveTaskRequest{TargetID: "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSortAndClearCompleted(t *testing.T) {
	s := newTestServer(t)
	for _, in := range []handler.CreateTaskRequest{
		{Text: "low", Priority: "low"},
		{Text: "high", Priority: "high"},
		{Text: "medium"},
	} {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/tasks", in)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// GET 上的 sort 只影响返回的视图
	rec, _ := s.do(t, http.MethodGet, "/api/v1/tasks?sort=priority", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"low", "high", "medium"}, order(s.list))

	rec, _ = s.do(t, http.MethodGet, "/api/v1/tasks?sort=alpha", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/tasks/sort", handler.SortRequest{By: "priority"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"high", "medium", "low"}, order(s.list))

	high := s.list.Snapshot()[0]
	_, err := s.list.ToggleCompleted(context.Background(), high.ID)
	require.NoError(t, err)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/tasks/clear-completed", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"medium", "low"}, order(s.list))
}

func TestStatsAndCountdowns(t *testing.T) {
	s := newTestServer(t)
	s.create(t, "undated")
	rec, _ := s.do(t, http.MethodPost, "/api/v1/tasks", handler.CreateTaskRequest{Text: "past", Date: "2000-01-01", Time: "00:00"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/tasks/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		Data store.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Data.Total)
	assert.Equal(t, 1, stats.Data.Overdue)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/tasks/countdowns", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var cds struct {
		Data []reminder.Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cds))
	require.Len(t, cds.Data, 1)
	assert.Equal(t, reminder.TimesUp, cds.Data[0].Display)
	// 查询倒计时不会触发提醒
	assert.False(t, s.list.Snapshot()[1].Notified)
}

func TestPermissionAndInteraction(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPut, "/api/v1/notifications/permission", handler.PermissionRequest{Permission: "granted"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reminder.PermissionGranted, s.signal.Permission())
	// PUT 本身就是一次交互
	assert.True(t, s.signal.AudioUnlocked())

	rec, _ = s.do(t, http.MethodGet, "/api/v1/notifications/permission", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"granted"`)
}

func TestGetDoesNotUnlockAudio(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/api/v1/tasks", nil)
	assert.False(t, s.signal.AudioUnlocked())

	rec, _ := s.do(t, http.MethodPost, "/api/v1/interaction", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.signal.AudioUnlocked())
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks/abc/move", nil)
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/v1/tasks",
		"/api/v1/tasks/abc",
		"/api/v1/tasks/abc/toggle",
		"/api/v1/notifications/permission",
		"/api/v1/interaction",
	} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()
		s.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}
	// 预检请求不算用户交互
	assert.False(t, s.signal.AudioUnlocked())
}
