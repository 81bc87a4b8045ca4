package scheduler

import (
	"context"
	"testing"
	"time"
)

func noopTask(name string, executeTime time.Time) *OnceTask {
	return NewOnceTask(name, executeTime, TaskExecuteModeLocal, time.Minute,
		func(ctx context.Context) error { return nil })
}

// TestTaskHeapOrdering 测试任务堆按下次执行时间排序
func TestTaskHeapOrdering(t *testing.T) {
	now := time.Now()
	th := NewTaskHeap()

	th.SafePush(noopTask("third", now.Add(3*time.Hour)))
	th.SafePush(noopTask("first", now.Add(time.Hour)))
	th.SafePush(noopTask("second", now.Add(2*time.Hour)))

	for _, want := range []string{"first", "second", "third"} {
		task := th.SafePop()
		if task == nil {
			t.Fatalf("堆提前为空, want %s", want)
		}
		if task.GetName() != want {
			t.Errorf("弹出顺序错误: got %s, want %s", task.GetName(), want)
		}
	}
	if th.SafePop() != nil {
		t.Error("空堆应返回nil")
	}
}

// TestTaskHeapPopReadyTasks 测试只弹出到期的任务
func TestTaskHeapPopReadyTasks(t *testing.T) {
	now := time.Now()
	th := NewTaskHeap()

	th.SafePush(noopTask("due-1", now.Add(-2*time.Minute)))
	th.SafePush(noopTask("due-2", now.Add(-time.Minute)))
	th.SafePush(noopTask("future", now.Add(time.Hour)))

	ready := th.PopReadyTasks(now)
	if len(ready) != 2 {
		t.Fatalf("到期任务数 = %d, want 2", len(ready))
	}
	if th.SafeSize() != 1 {
		t.Errorf("剩余任务数 = %d, want 1", th.SafeSize())
	}
	if next := th.SafePeek(); next == nil || next.GetName() != "future" {
		t.Error("堆顶应为未到期任务")
	}
}

// TestTaskHeapSafeRemove 测试按ID移除任务
func TestTaskHeapSafeRemove(t *testing.T) {
	now := time.Now()
	th := NewTaskHeap()

	task := noopTask("removable", now.Add(time.Hour))
	th.SafePush(task)
	th.SafePush(noopTask("keep", now.Add(2*time.Hour)))

	if !th.SafeRemove(task.GetID()) {
		t.Fatal("移除已存在的任务应返回true")
	}
	if th.SafeRemove("missing-id") {
		t.Error("移除不存在的任务应返回false")
	}
	if th.SafeSize() != 1 {
		t.Errorf("剩余任务数 = %d, want 1", th.SafeSize())
	}
}
