// Package worker runs best-effort background jobs, decoupled from the
// request/response cycle that queued them.
package worker

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Task is a function that represents a background job.
type Task func(ctx context.Context) error

// Pool is a fixed-size worker pool with a bounded queue. A full queue drops
// the task rather than blocking the submitter; tasks here are best-effort.
type Pool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	isClosing atomic.Bool
}

// NewPool starts size workers draining a bounded task queue.
func NewPool(size int) *Pool {
	p := &Pool{
		taskQueue: make(chan Task, 256),
	}

	for range size {
		p.wg.Add(1)
		go p.run()
	}

	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		if err := task(context.Background()); err != nil {
			logTaskError(err)
		}
	}
}

// Submit queues t for execution. Tasks submitted during shutdown or while the
// queue is full are dropped.
func (p *Pool) Submit(t Task) {
	if p.isClosing.Load() {
		logDrop("task submitted during shutdown, dropping")
		return
	}
	select {
	case p.taskQueue <- t:
	default:
		logDrop("task queue full, dropping task")
	}
}

// Shutdown stops accepting new tasks and waits for in-flight ones to finish.
func (p *Pool) Shutdown() {
	p.isClosing.Store(true)
	close(p.taskQueue)
	p.wg.Wait()
}

func logTaskError(err error) {
	enc := json.NewEncoder(os.Stdout)
	if encErr := enc.Encode(map[string]any{
		"component": "worker",
		"level":     "error",
		"msg":       "background task failed",
		"error":     err.Error(),
	}); encErr != nil {
		log.Printf("worker task failed: %v", err)
	}
}

func logDrop(msg string) {
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(map[string]any{
		"component": "worker",
		"level":     "warn",
		"msg":       msg,
	})
}
