// Package workqueue 提供有界的异步任务队列
package workqueue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Job 队列中的一个任务
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue 有界任务队列，固定数量的工作者消费
type Queue struct {
	jobs    chan Job
	workers int
	logger  *logrus.Logger

	isRunning atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// 统计信息
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// Config 队列配置
type Config struct {
	// 队列容量
	Capacity int
	// 工作者数量
	Workers int
	// 日志器
	Logger *logrus.Logger
}

// New 创建任务队列
func New(config Config) *Queue {
	if config.Capacity <= 0 {
		config.Capacity = 256
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		jobs:    make(chan Job, config.Capacity),
		workers: config.Workers,
		logger:  config.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start 启动工作者
func (q *Queue) Start() error {
	if !q.isRunning.CompareAndSwap(false, true) {
		return fmt.Errorf("任务队列已经在运行")
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	q.logger.Infof("任务队列已启动，工作者数量: %d", q.workers)
	return nil
}

// Stop 停止队列，等待在途任务完成
func (q *Queue) Stop() {
	if !q.isRunning.CompareAndSwap(true, false) {
		return
	}

	q.cancel()
	q.wg.Wait()
	q.logger.Info("任务队列已停止")
}

// Submit 提交任务，队列已满时丢弃并返回错误
func (q *Queue) Submit(job Job) error {
	if !q.isRunning.Load() {
		return fmt.Errorf("任务队列未运行")
	}

	select {
	case q.jobs <- job:
		q.submitted.Add(1)
		return nil
	default:
		q.dropped.Add(1)
		q.logger.Warnf("任务队列已满，丢弃任务: %s", job.Name)
		return fmt.Errorf("任务队列已满")
	}
}

// worker 消费任务直到队列停止
func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			// 排空剩余任务后退出
			for {
				select {
				case job := <-q.jobs:
					q.runJob(job)
				default:
					return
				}
			}
		case job := <-q.jobs:
			q.runJob(job)
		}
	}
}

// runJob 执行单个任务，panic不影响工作者
func (q *Queue) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.failed.Add(1)
			q.logger.Errorf("任务执行崩溃: %s, %v", job.Name, r)
		}
	}()

	if err := job.Run(context.Background()); err != nil {
		q.failed.Add(1)
		q.logger.Errorf("任务执行失败: %s, 错误: %v", job.Name, err)
		return
	}
	q.completed.Add(1)
}

// Stats 队列统计信息
type Stats struct {
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
	Pending   int   `json:"pending"`
}

// GetStats 获取统计信息
func (q *Queue) GetStats() Stats {
	return Stats{
		Submitted: q.submitted.Load(),
		Completed: q.completed.Load(),
		Failed:    q.failed.Load(),
		Dropped:   q.dropped.Load(),
		Pending:   len(q.jobs),
	}
}
