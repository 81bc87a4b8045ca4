package workqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestQueueRunJobs 测试任务提交与执行
func TestQueueRunJobs(t *testing.T) {
	q := New(Config{Capacity: 16, Workers: 2})
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var executed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := q.Submit(Job{
			Name: fmt.Sprintf("job-%d", i),
			Run: func(ctx context.Context) error {
				defer wg.Done()
				executed.Add(1)
				return nil
			},
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	wg.Wait()
	q.Stop()

	if executed.Load() != 10 {
		t.Errorf("执行任务数 = %d, want 10", executed.Load())
	}
	stats := q.GetStats()
	if stats.Submitted != 10 || stats.Completed != 10 {
		t.Errorf("stats = %+v, want submitted=10 completed=10", stats)
	}
}

// TestQueueSubmitBeforeStart 测试未启动时拒绝提交
func TestQueueSubmitBeforeStart(t *testing.T) {
	q := New(Config{})
	if err := q.Submit(Job{Name: "early", Run: func(ctx context.Context) error { return nil }}); err == nil {
		t.Fatal("未启动的队列应拒绝提交")
	}
}

// TestQueueDropOnFull 测试队列写满后丢弃任务
func TestQueueDropOnFull(t *testing.T) {
	q := New(Config{Capacity: 1, Workers: 1})
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer q.Stop()

	block := make(chan struct{})
	release := make(chan struct{})
	// 第一个任务占住唯一的工作者
	if err := q.Submit(Job{Name: "blocker", Run: func(ctx context.Context) error {
		close(block)
		<-release
		return nil
	}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	<-block

	// 填满容量为1的缓冲
	if err := q.Submit(Job{Name: "queued", Run: func(ctx context.Context) error { return nil }}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// 缓冲已满，此次提交应被丢弃
	if err := q.Submit(Job{Name: "overflow", Run: func(ctx context.Context) error { return nil }}); err == nil {
		t.Error("队列写满后应返回错误")
	}
	if stats := q.GetStats(); stats.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", stats.Dropped)
	}

	close(release)
}

// TestQueueRecoversPanic 测试任务panic不影响工作者继续消费
func TestQueueRecoversPanic(t *testing.T) {
	q := New(Config{Capacity: 4, Workers: 1})
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := q.Submit(Job{Name: "panics", Run: func(ctx context.Context) error {
		panic("boom")
	}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	done := make(chan struct{})
	if err := q.Submit(Job{Name: "after-panic", Run: func(ctx context.Context) error {
		close(done)
		return nil
	}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("panic后工作者未继续执行后续任务")
	}
	q.Stop()

	if stats := q.GetStats(); stats.Failed != 1 {
		t.Errorf("failed = %d, want 1", stats.Failed)
	}
}

// TestQueueStopDrainsPending 测试停止时排空在途任务
func TestQueueStopDrainsPending(t *testing.T) {
	q := New(Config{Capacity: 16, Workers: 1})
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var executed atomic.Int64
	for i := 0; i < 5; i++ {
		if err := q.Submit(Job{Name: "drain", Run: func(ctx context.Context) error {
			executed.Add(1)
			return nil
		}}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	q.Stop()
	if executed.Load() != 5 {
		t.Errorf("停止后执行任务数 = %d, want 5", executed.Load())
	}
}

// TestQueueFailedStat 测试任务返回错误计入失败统计
func TestQueueFailedStat(t *testing.T) {
	q := New(Config{Capacity: 4, Workers: 1})
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := q.Submit(Job{Name: "fails", Run: func(ctx context.Context) error {
		return errors.New("任务失败")
	}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	q.Stop()

	if stats := q.GetStats(); stats.Failed != 1 || stats.Completed != 0 {
		t.Errorf("stats = %+v, want failed=1 completed=0", stats)
	}
}
