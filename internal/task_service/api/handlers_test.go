package api

import (
	"Renwuquan/internal/models"
	"Renwuquan/internal/task_service/service"
	"Renwuquan/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// handlerLedger 是 handler 测试用的最小 Ledger 实现，
// 只托管一条任务，足以驱动完整的 HTTP 往返。
type handlerLedger struct {
	task     *models.Task
	balances map[uint]decimal.Decimal
}

func (l *handlerLedger) GetTask(_ context.Context, id uint) (*models.Task, error) {
	if l.task == nil || l.task.ID != id {
		return nil, models.ErrTaskNotFound
	}
	cp := *l.task
	return &cp, nil
}

func (l *handlerLedger) InTransaction(_ context.Context, fn func(tx service.LedgerTx) error) error {
	return fn(l)
}

func (l *handlerLedger) UpdateMessageCompletionStatus(_ context.Context, _ uint, _ models.TaskCompletionStatus) error {
	return nil
}

func (l *handlerLedger) GetTaskForUpdate(id uint) (*models.Task, error) {
	return l.GetTask(context.Background(), id)
}

func (l *handlerLedger) IncrementBalance(userID uint, amount decimal.Decimal) error {
	l.balances[userID] = l.balances[userID].Add(amount)
	return nil
}

func (l *handlerLedger) RecordTransaction(_ *models.WalletTransaction) error { return nil }

func (l *handlerLedger) UpdateTask(_ uint, fields map[string]interface{}) error {
	if v, ok := fields["task_status"]; ok {
		l.task.TaskStatus = v.(models.TaskStatus)
	}
	return nil
}

func (l *handlerLedger) CreateMessage(_ *models.Message) error { return nil }

type noopNotifier struct{}

func (noopNotifier) TaskSettled(_ context.Context, _ *models.Task, _ models.ActivityType) error {
	return nil
}

// testAuth 用请求头模拟已解析的登录身份。
func testAuth(c *gin.Context) {
	if raw := c.GetHeader("X-Test-User"); raw != "" {
		id, _ := strconv.ParseUint(raw, 10, 32)
		c.Set("userID", uint(id))
	}
	c.Next()
}

func newTestRouter(ledger *handlerLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewService(ledger, noopNotifier{}, logger.New("test"))
	h := NewHandler(svc)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"), testAuth)
	return r
}

func newHandlerLedger() *handlerLedger {
	acceptor := uint(2)
	task := &models.Task{
		OwnerID:            1,
		Title:              "代写文案",
		CompletedBy:        &acceptor,
		TaskStatus:         models.TaskStatusCompletionRequested,
		FinalPaymentAmount: decimal.RequireFromString("100.00"),
	}
	task.ID = 7
	return &handlerLedger{task: task, balances: map[uint]decimal.Decimal{}}
}

func doSettle(t *testing.T, r *gin.Engine, path, userID string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleCompletionSuccess(t *testing.T) {
	ledger := newHandlerLedger()
	r := newTestRouter(ledger)

	w := doSettle(t, r, "/api/v1/tasks/7/handle-completion", "1", map[string]string{"action": "complete"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool        `json:"success"`
		Post    models.Task `json:"post"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Post.TaskStatus != models.TaskStatusCompleted {
		t.Errorf("post status = %s, want COMPLETED", resp.Post.TaskStatus)
	}
	if got := ledger.balances[2]; !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("acceptor balance = %s, want 100.00", got)
	}
}

// Scenario C：非发布者 → 403，任务状态不变。
func TestHandleCompletionForbidden(t *testing.T) {
	ledger := newHandlerLedger()
	r := newTestRouter(ledger)

	w := doSettle(t, r, "/api/v1/tasks/7/handle-completion", "9", map[string]string{"action": "complete"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if ledger.task.TaskStatus != models.TaskStatusCompletionRequested {
		t.Errorf("task status changed to %s", ledger.task.TaskStatus)
	}
}

// Scenario D：重复裁决 → 第二次 400。
func TestHandleCompletionTwice(t *testing.T) {
	ledger := newHandlerLedger()
	r := newTestRouter(ledger)

	if w := doSettle(t, r, "/api/v1/tasks/7/handle-completion", "1", map[string]string{"action": "complete"}); w.Code != http.StatusOK {
		t.Fatalf("first settle status = %d", w.Code)
	}
	w := doSettle(t, r, "/api/v1/tasks/7/handle-completion", "1", map[string]string{"action": "complete"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second settle status = %d, want 400", w.Code)
	}
	if got := ledger.balances[2]; !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("acceptor balance = %s, want exactly 100.00", got)
	}
}

func TestHandleCompletionRejectsUnknownAction(t *testing.T) {
	r := newTestRouter(newHandlerLedger())

	for _, action := range []string{"approve", "refund", ""} {
		w := doSettle(t, r, "/api/v1/tasks/7/handle-completion", "1", map[string]string{"action": action})
		if w.Code != http.StatusBadRequest {
			t.Errorf("action %q: status = %d, want 400", action, w.Code)
		}
	}
}

// handle-task-outcome 只接受 refund 和 fail。
func TestHandleTaskOutcomeActions(t *testing.T) {
	ledger := newHandlerLedger()
	r := newTestRouter(ledger)

	w := doSettle(t, r, "/api/v1/tasks/7/handle-task-outcome", "1", map[string]string{"action": "complete"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("complete via handle-task-outcome: status = %d, want 400", w.Code)
	}

	w = doSettle(t, r, "/api/v1/tasks/7/handle-task-outcome", "1", map[string]string{"action": "refund"})
	if w.Code != http.StatusOK {
		t.Fatalf("refund status = %d, body = %s", w.Code, w.Body.String())
	}
	if ledger.task.TaskStatus != models.TaskStatusEnded {
		t.Errorf("task status = %s, want ENDED", ledger.task.TaskStatus)
	}
	if got := ledger.balances[1]; !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("owner balance = %s, want 100.00", got)
	}
}

func TestHandleCompletionNotFound(t *testing.T) {
	r := newTestRouter(newHandlerLedger())

	w := doSettle(t, r, "/api/v1/tasks/404/handle-completion", "1", map[string]string{"action": "complete"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleCompletionUnauthenticated(t *testing.T) {
	r := newTestRouter(newHandlerLedger())

	w := doSettle(t, r, "/api/v1/tasks/7/handle-completion", "", map[string]string{"action": "complete"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGetTask(t *testing.T) {
	r := newTestRouter(newHandlerLedger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/7", nil)
	req.Header.Set("X-Test-User", "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
