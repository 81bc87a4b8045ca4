package notifier

import (
	"fmt"
	"testing"
	"time"
)

func newTestDashboard(t *testing.T, maxEntries int) *DashboardNotifier {
	t.Helper()
	n, err := NewDashboardNotifier(&NotifierConfig{
		ID:     "test-dashboard",
		Type:   NotifierTypeDashboard,
		Name:   "测试看板",
		Config: &DashboardNotifierConfig{MaxEntries: maxEntries},
	})
	if err != nil {
		t.Fatalf("创建看板通知器失败: %v", err)
	}
	return n.(*DashboardNotifier)
}

// TestDashboardNotifierRecent 测试最近通知按新到旧排序
func TestDashboardNotifierRecent(t *testing.T) {
	dashboard := newTestDashboard(t, 10)

	for i := 1; i <= 3; i++ {
		result, err := dashboard.Send(&Notification{
			ID:        fmt.Sprintf("n-%d", i),
			Title:     fmt.Sprintf("通知%d", i),
			Level:     NotificationLevelInfo,
			CreatedAt: time.Now(),
		})
		if err != nil || !result.Success {
			t.Fatalf("Send() 失败: %v", err)
		}
	}

	recent := dashboard.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("Recent(0) 返回 %d 条, want 3", len(recent))
	}
	if recent[0].ID != "n-3" || recent[2].ID != "n-1" {
		t.Errorf("排序错误: [%s, %s, %s], want 新的在前", recent[0].ID, recent[1].ID, recent[2].ID)
	}

	limited := dashboard.Recent(2)
	if len(limited) != 2 || limited[0].ID != "n-3" {
		t.Errorf("Recent(2) = %d 条, 首条 %s", len(limited), limited[0].ID)
	}
}

// TestDashboardNotifierRingWrap 测试环形缓冲写满后覆盖最旧的通知
func TestDashboardNotifierRingWrap(t *testing.T) {
	dashboard := newTestDashboard(t, 3)

	for i := 1; i <= 5; i++ {
		if _, err := dashboard.Send(&Notification{ID: fmt.Sprintf("n-%d", i)}); err != nil {
			t.Fatalf("Send() 失败: %v", err)
		}
	}

	recent := dashboard.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("写满后应保留3条, got %d", len(recent))
	}
	for i, wantID := range []string{"n-5", "n-4", "n-3"} {
		if recent[i].ID != wantID {
			t.Errorf("recent[%d].ID = %s, want %s", i, recent[i].ID, wantID)
		}
	}
}

// TestDashboardNotifierEmpty 测试空缓冲的查询
func TestDashboardNotifierEmpty(t *testing.T) {
	dashboard := newTestDashboard(t, 5)
	if recent := dashboard.Recent(10); len(recent) != 0 {
		t.Errorf("空缓冲应返回0条, got %d", len(recent))
	}
}
