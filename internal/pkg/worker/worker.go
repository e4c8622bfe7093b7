package worker

import (
	"context"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/internal/domain/loyalty/repository"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ActivityTask 一条待写入的积分动态
type ActivityTask struct {
	ShopSlug   string
	CustomerID string
	Activity   model.Activity
	Retry      int // 重试次数
}

type WorkerPool struct {
	TaskQueue  chan ActivityTask
	RetryQueue chan ActivityTask // 重试队列
	Repo       repository.ActivityRepository
	WorkerNum  int
	MaxRetry   int           // 最大重试次数
	RetryDelay time.Duration // 每次重试的退避基数
	Timeout    time.Duration // 单次写入超时

	// OnDrop 任务被丢弃时回调（指标）
	OnDrop func()

	log      *zap.Logger
	quit     chan struct{}
	wg       sync.WaitGroup
	retryWG  sync.WaitGroup
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
}

func NewWorkerPool(repo repository.ActivityRepository, workerNum int, bufferSize int, log *zap.Logger) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize <= 1 {
		bufferSize = 2
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkerPool{
		TaskQueue:  make(chan ActivityTask, bufferSize),
		RetryQueue: make(chan ActivityTask, bufferSize/2),
		Repo:       repo,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
		RetryDelay: 200 * time.Millisecond,
		Timeout:    5 * time.Second,
		log:        log,
		quit:       make(chan struct{}),
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	// 启动重试处理协程
	p.retryWG.Add(1)
	go p.retryWorker()
	p.log.Info("activity worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止接收任务，处理完主队列中剩余的任务后返回；未完成的重试任务记录为丢弃
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()

		close(p.quit)
		p.wg.Wait()
		p.retryWG.Wait()

		// 所有协程已退出，清空两个队列
		p.drain(-1)
		for {
			select {
			case task := <-p.RetryQueue:
				p.drop(task, nil, "pool stopped")
			default:
				p.log.Info("activity worker pool stopped")
				return
			}
		}
	})
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.TaskQueue:
			p.handle(id, task)
		case <-p.quit:
			p.drain(id)
			return
		}
	}
}

func (p *WorkerPool) drain(id int) {
	for {
		select {
		case task := <-p.TaskQueue:
			p.handle(id, task)
		default:
			return
		}
	}
}

func (p *WorkerPool) handle(id int, task ActivityTask) {
	err := p.processTask(task)
	if err == nil {
		return
	}

	p.log.Warn("append activity failed",
		zap.Int("worker", id),
		zap.String("shop", task.ShopSlug),
		zap.String("customer", task.CustomerID),
		zap.Int("attempt", task.Retry+1),
		zap.Error(err),
	)

	if p.isStopping() {
		p.drop(task, err, "pool stopped")
		return
	}

	// 如果未达到最大重试次数，加入重试队列
	if task.Retry < p.MaxRetry {
		task.Retry++
		select {
		case p.RetryQueue <- task:
		default:
			p.drop(task, err, "retry queue full")
		}
		return
	}
	p.drop(task, err, "max retries exceeded")
}

func (p *WorkerPool) isStopping() bool {
	select {
	case <-p.quit:
		return true
	default:
		return false
	}
}

func (p *WorkerPool) retryWorker() {
	defer p.retryWG.Done()
	for {
		select {
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-time.After(time.Duration(task.Retry) * p.RetryDelay):
			case <-p.quit:
				p.drop(task, nil, "pool stopped")
				continue
			}

			// 重新加入主队列
			select {
			case p.TaskQueue <- task:
			default:
				p.drop(task, nil, "main queue full")
			}
		case <-p.quit:
			return
		}
	}
}

func (p *WorkerPool) processTask(task ActivityTask) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	return p.Repo.Append(ctx, task.ShopSlug, task.CustomerID, task.Activity)
}

func (p *WorkerPool) drop(task ActivityTask, err error, reason string) {
	p.log.Error("activity dropped",
		zap.String("reason", reason),
		zap.String("shop", task.ShopSlug),
		zap.String("customer", task.CustomerID),
		zap.String("activity", task.Activity.ID),
		zap.Error(err),
	)
	if p.OnDrop != nil {
		p.OnDrop()
	}
}

// AddTask 非阻塞入队，队列已满或已停止时丢弃
func (p *WorkerPool) AddTask(task ActivityTask) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		p.drop(task, nil, "pool stopped")
		return
	}

	select {
	case p.TaskQueue <- task:
		// 任务入队成功
	default:
		p.drop(task, nil, "queue full")
	}
}
