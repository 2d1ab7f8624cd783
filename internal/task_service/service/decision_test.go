package service

import (
	"Renwuquan/internal/models"
	"errors"
	"testing"
)

func TestParseDecision(t *testing.T) {
	valid := map[string]Decision{
		"complete": DecisionComplete,
		"reject":   DecisionReject,
		"fail":     DecisionFail,
		"refund":   DecisionRefund,
	}
	for s, want := range valid {
		got, err := ParseDecision(s)
		if err != nil {
			t.Errorf("ParseDecision(%q) error = %v", s, err)
		}
		if got != want {
			t.Errorf("ParseDecision(%q) = %v, want %v", s, got, want)
		}
	}

	for _, s := range []string{"", "COMPLETE", "approve", "cancel"} {
		if _, err := ParseDecision(s); !errors.Is(err, models.ErrInvalidDecision) {
			t.Errorf("ParseDecision(%q) error = %v, want ErrInvalidDecision", s, err)
		}
	}
}

// 每个裁决的记账后果必须与结算规则表一致。
func TestDecisionOutcomes(t *testing.T) {
	cases := []struct {
		decision    Decision
		status      models.TaskStatus
		payAcceptor bool
		txType      models.TransactionType
		activity    models.ActivityType
	}{
		{DecisionComplete, models.TaskStatusCompleted, true, models.TransactionReward, models.ActivityTaskCompleted},
		{DecisionReject, models.TaskStatusCompleted, false, models.TransactionRefund, models.ActivityTaskRejected},
		{DecisionFail, models.TaskStatusFailed, false, models.TransactionRefund, models.ActivityTaskFailed},
		{DecisionRefund, models.TaskStatusEnded, false, models.TransactionRefund, models.ActivityTaskRefunded},
	}

	for _, tc := range cases {
		out := tc.decision.outcome()
		if out.status != tc.status {
			t.Errorf("%s: status = %s, want %s", tc.decision, out.status, tc.status)
		}
		if out.payAcceptor != tc.payAcceptor {
			t.Errorf("%s: payAcceptor = %v, want %v", tc.decision, out.payAcceptor, tc.payAcceptor)
		}
		if out.txType != tc.txType {
			t.Errorf("%s: txType = %s, want %s", tc.decision, out.txType, tc.txType)
		}
		if out.activity != tc.activity {
			t.Errorf("%s: activity = %s, want %s", tc.decision, out.activity, tc.activity)
		}
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	terminal := []models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusFailed, models.TaskStatusEnded}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []models.TaskStatus{models.TaskStatusOpen, models.TaskStatusAccepted, models.TaskStatusCompletionRequested} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
