// Package scheduler implements background interval execution.
package scheduler

import (
	"sync"
	"time"
)

// Task is a handle on a running interval loop.
type Task struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Every runs job once immediately and then on every interval tick until the
// task is stopped.
func Every(interval time.Duration, job func()) *Task {
	task := &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(task.done)

		job()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-task.stop:
				return
			case <-ticker.C:
				job()
			}
		}
	}()

	return task
}

// Stop cancels the loop. The currently running job, if any, finishes; no
// further runs are scheduled. Safe to call more than once.
func (t *Task) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

// Done is closed once the loop has fully exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
