package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"todo-reminder/reminder"
	"todo-reminder/store"
)

// Response 统一响应格式
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo 错误信息
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateTaskRequest 创建任务请求体
type CreateTaskRequest struct {
	Text     string `json:"text" example:"Buy groceries"`
	Priority string `json:"priority" example:"high"`
	Date     string `json:"date" example:"2025-05-30"`
	Time     string `json:"time" example:"16:00"`
}

// EditTaskRequest 修改任务文本
type EditTaskRequest struct {
	Text *string `json:"text" example:"Finish weekly report"`
}

// MoveTaskRequest 拖动排序：放到 target_id 旁边，或 end 为 true 时移到末尾
type MoveTaskRequest struct {
	TargetID string `json:"target_id,omitempty"`
	End      bool   `json:"end,omitempty"`
}

// SortRequest 排序方式：date 或 priority
type SortRequest struct {
	By string `json:"by" example:"priority"`
}

// PermissionRequest 通知权限
type PermissionRequest struct {
	Permission string `json:"permission" example:"granted"`
}

// Handler 处理器结构体
type Handler struct {
	tasks  *store.TaskList
	signal *reminder.Signal
	now    func() time.Time
}

// 超时配置
const (
	ReadTimeout  = 2 * time.Second // 只读操作超时
	WriteTimeout = 3 * time.Second // 修改并持久化的超时
)

// NewHandler 创建新的处理器
func NewHandler(tasks *store.TaskList, signal *reminder.Signal) *Handler {
	return &Handler{tasks: tasks, signal: signal, now: time.Now}
}

// sendJSON 发送JSON响应
func (h *Handler) sendJSON(w http.ResponseWriter, status int, response Response) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(response); err != nil {
		// 编码失败时直接返回纯文本，不能再调用 sendError
		log.Printf("Failed to encode response: %v", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error: Failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// sendError 发送错误响应
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// sendStoreError 把 store 层错误映射为响应
func (h *Handler) sendStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.sendError(w, http.StatusNotFound, "NOT_FOUND", "任务不存在")
	case errors.Is(err, store.ErrEmptyText):
		h.sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "任务内容不能为空")
	case errors.Is(err, store.ErrIncompleteDue):
		h.sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "日期和时间必须同时填写")
	case errors.Is(err, store.ErrInvalidDue):
		h.sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("%s timeout: %v", op, err)
		h.sendError(w, http.StatusRequestTimeout, "TIMEOUT", "操作超时，请稍后重试")
	case errors.Is(err, context.Canceled):
		// 客户端取消请求，不需要响应
		log.Printf("%s canceled: %v", op, err)
	default:
		log.Printf("Failed to %s: %v", op, err)
		h.sendError(w, http.StatusInternalServerError, "STORAGE_ERROR", "保存失败")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 限制1MB
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("JSON解析失败: %v", err))
		return false
	}
	return true
}

// HealthCheck 健康检查
// @Summary 健康检查
// @Description 返回应用当前健康状态
// @Tags health
// @Produce json
// @Success 200 {object} handler.Response
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"status":    "ok",
			"timestamp": h.now().UTC().Format(time.RFC3339),
			"tasks":     h.tasks.Len(),
		},
		Message: "服务运行正常",
	})
}

// ListTasks 获取任务列表
// @Summary 获取任务列表
// @Description 按用户顺序返回任务；sort 只影响本次返回的视图，today 只返回今天到期的任务
// @Tags tasks
// @Param sort query string false "排序方式" Enums(date,priority)
// @Param today query bool false "只看今天"
// @Produce json
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	todayOnly, _ := strconv.ParseBool(r.URL.Query().Get("today"))
	tasks := h.tasks.Filter(store.Filter{TodayOnly: todayOnly}, h.now())

	if s := r.URL.Query().Get("sort"); s != "" {
		by, err := store.ParseSortBy(s)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
			return
		}
		tasks = store.Sorted(tasks, by)
	}

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"tasks": tasks,
			"total": len(tasks),
		},
		Message: "获取任务成功",
	})
}

// CreateTask 创建任务
// @Summary 创建任务
// @Description 追加一个任务到列表末尾；date 和 time 要么都填要么都不填
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body handler.CreateTaskRequest true "任务内容"
// @Success 201 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Failure 500 {object} handler.Response
// @Router /tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), WriteTimeout)
	defer cancel()
	defer r.Body.Close()

	var req CreateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.tasks.Add(ctx, store.AddInput{
		Text:     req.Text,
		Priority: req.Priority,
		Date:     req.Date,
		Time:     req.Time,
	})
	if err != nil {
		h.sendStoreError(w, "create task", err)
		return
	}

	h.sendJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    task,
		Message: "创建任务成功",
	})
}

// EditTask 修改任务文本
// @Summary 修改任务文本
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "任务ID"
// @Param task body handler.EditTaskRequest true "新文本"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /tasks/{id} [put]
func (h *Handler) EditTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), WriteTimeout)
	defer cancel()
	defer r.Body.Close()

	var req EditTaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Text == nil {
		h.sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "缺少 text 字段")
		return
	}

	task, err := h.tasks.EditText(ctx, r.PathValue("id"), *req.Text)
	if err != nil {
		h.sendStoreError(w, "edit task", err)
		return
	}

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    task,
		Message: "更新任务成功",
	})
}

// ToggleTask 切换完成状态
// @Summary 切换完成状态
// @Tags tasks
// @Produce json
// @Param id path string true "任务ID"
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /tasks/{id}/toggle [post]
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), WriteTimeout)
	defer cancel()

	task, err := h.tasks.ToggleCompleted(ctx, r.PathValue("id"))
	if err != nil {
		h.sendStoreError(w, "toggle task", err)
		return
	}

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    task,
		Message: "更新任务成功",
	})
}

// DeleteTask 删除任务，任务不存在时同样返回成功
// @Summary 删除任务
// @Tags tasks
// @Produce json
// @Param id path string true "任务ID"
// @Success 200 {object} handler.Response
// @Failure 500 {object} handler.Response
// @Router /tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), WriteTimeout)
	defer cancel()

	if err := h.tasks.Remove(ctx, r.PathValue("id")); err != nil {
		h.sendStoreError(w, "delete task", err)
		return
	}

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "删除任务成功",
	})
}

// MoveTask 拖动排序
// @Summary 拖动排序
// @Description 向下拖动时放到目标之后，向上拖动时放到目标之前
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "被拖动的任务ID"
// @Param move body handler.MoveTaskRequest true "目标"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /tasks/{id}/move [post]
func (h *Handler) MoveTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), WriteTimeout)
	defer cancel()
	defer r.Body.Close()

	var req MoveTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	var err error
	switch {
	case req.End:
		err = h.tasks.MoveToEnd(ctx, id)
	case req.TargetID != "":
		err = h.tasks.Reorder(ctx, id, req.TargetID)
	default:
		h.sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "需要 target_id 或 end")
		return
	}
	if err != nil {
		h.sendStoreError(w, "move task", err)
		return
	}

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    h.tasks.Snapshot(),
		Message: "排序成功",
	})
}

// SortTasks 排序并保存为新的顺序
// @Summary 排序任务
// @Tags tasks
// @Accept json
// @Produce json
// @Param sort body handler.SortRequest true "排序方式"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /tasks/sort [post]
func (h *Handler) SortTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), WriteTimeout)
	defer cancel()
	defer r.Body.Close()

	var req SortRequest
	if !h.decode(w, r, &req) {
		return
	}

	by, err := store.ParseSortBy(req.By)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
		return
	}

	if err := h.tasks.Sort(ctx, by); err != nil {
		h.sendStoreError(w, "sort tasks", err)
		return
	}

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    h.tasks.Snapshot(),
		Message: "排序成功",
	})
}

// ClearCompleted 删除所有已完成任务
// @Summary 清除已完成任务
// @Tags tasks
// @Produce json
// @Success 200 {object} handler.Response
// @Failure 500 {object} handler.Response
// @Router /tasks/clear-completed [post]
func (h *Handler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), WriteTimeout)
	defer cancel()

	removed, err := h.tasks.ClearCompleted(ctx)
	if err != nil {
		h.sendStoreError(w, "clear completed", err)
		return
	}

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]int{"removed": removed},
		Message: "清除成功",
	})
}

// GetStats 获取统计信息
// @Summary 统计信息
// @Tags tasks
// @Produce json
// @Success 200 {object} handler.Response
// @Router /tasks/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    h.tasks.Stats(h.now()),
		Message: "获取统计信息成功",
	})
}

// GetCountdowns 计算所有带截止时间任务的倒计时，不会触发提醒
// @Summary 倒计时
// @Tags tasks
// @Produce json
// @Success 200 {object} handler.Response
// @Router /tasks/countdowns [get]
func (h *Handler) GetCountdowns(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    reminder.Statuses(h.tasks.Snapshot(), h.now()),
		Message: "获取倒计时成功",
	})
}

// GetPermission 当前通知权限
// @Summary 通知权限
// @Tags notifications
// @Produce json
// @Success 200 {object} handler.Response
// @Router /notifications/permission [get]
func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"permission":     h.signal.Permission(),
			"audio_unlocked": h.signal.AudioUnlocked(),
		},
	})
}

// SetPermission 设置通知权限
// @Summary 设置通知权限
// @Tags notifications
// @Accept json
// @Produce json
// @Param permission body handler.PermissionRequest true "granted, denied 或 default"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /notifications/permission [put]
func (h *Handler) SetPermission(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req PermissionRequest
	if !h.decode(w, r, &req) {
		return
	}

	p := reminder.ParsePermission(req.Permission)
	h.signal.SetPermission(p)

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"permission": p},
		Message: "通知权限已更新",
	})
}

// MarkInteraction 记录一次用户交互
func (h *Handler) MarkInteraction() {
	h.signal.UnlockAudio()
}

// Interaction 记录用户交互，之后允许播放提示音
// @Summary 记录用户交互
// @Tags notifications
// @Produce json
// @Success 200 {object} handler.Response
// @Router /interaction [post]
func (h *Handler) Interaction(w http.ResponseWriter, r *http.Request) {
	h.MarkInteraction()

	h.sendJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]bool{"audio_unlocked": true},
	})
}
