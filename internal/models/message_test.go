package models

import "testing"

// 会话 ID 必须与发起方无关：小 ID 在前，下划线连接。
func TestConversationID(t *testing.T) {
	cases := []struct {
		a, b uint
		want string
	}{
		{1, 2, "1_2"},
		{2, 1, "1_2"},
		{42, 7, "7_42"},
		{5, 5, "5_5"},
	}
	for _, tc := range cases {
		if got := ConversationID(tc.a, tc.b); got != tc.want {
			t.Errorf("ConversationID(%d, %d) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}
