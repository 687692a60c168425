package musicbox

import (
	"sync"

	"github.com/james-see/musicbox/pkg/button"
	"github.com/james-see/musicbox/pkg/hal"
)

// QueueCapacity is the number of button events that may wait for dispatch.
const QueueCapacity = 8

// ButtonID names one of the two control buttons.
type ButtonID uint8

const (
	ButtonA ButtonID = iota
	ButtonB
)

func (id ButtonID) String() string {
	if id == ButtonA {
		return "A"
	}
	return "B"
}

// Task is a button event waiting to be applied to the player.
type Task struct {
	Button ButtonID
	Event  button.Event
}

// TaskQueue is a bounded FIFO of tasks. It never blocks and never allocates
// after construction.
type TaskQueue struct {
	mu    hal.Locker
	buf   [QueueCapacity]Task
	head  int
	n     int
	drops uint32
}

// NewTaskQueue returns an empty queue guarded by mu (a sync.Mutex if nil).
func NewTaskQueue(mu hal.Locker) *TaskQueue {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &TaskQueue{mu: mu}
}

// Spawn enqueues t. It reports false and drops t when the queue is full.
func (q *TaskQueue) Spawn(t Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == len(q.buf) {
		q.drops++
		return false
	}
	q.buf[(q.head+q.n)%len(q.buf)] = t
	q.n++
	return true
}

// Pop dequeues the oldest task.
func (q *TaskQueue) Pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return Task{}, false
	}
	t := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return t, true
}

// Len returns the number of waiting tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Drops returns how many tasks were rejected because the queue was full.
func (q *TaskQueue) Drops() uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drops
}
