package event

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

const MaxQueued = 65535

var WaitTimeoutExceeded error = waitTimeoutError{}

type waitTimeoutError struct{}

func (waitTimeoutError) Error() string   { return "wait timeout exceeded" }
func (waitTimeoutError) Timeout() bool   { return true }
func (waitTimeoutError) Temporary() bool { return true }

type entry struct {
	ev   Data
	prev *entry
	next *entry
}

// Queue is a bounded FIFO of event records. Producers (protocol
// listeners running on the read-loop goroutine) Push; the dispatch
// loop Polls or Waits. Entries are kept on an intrusive list with a
// free list to avoid churn at event rates.
type Queue struct {
	lock *sync.Mutex

	active int32
	count  int32

	head *entry
	tail *entry
	free *entry

	start time.Time
}

// Start activates the queue. Timestamps on pushed events are
// milliseconds since this call.
func (q *Queue) Start() {
	if q.lock == nil {
		q.lock = &sync.Mutex{}
	}
	q.start = time.Now()
	atomic.StoreInt32(&q.active, 1)
}

// Stop deactivates and empties the queue.
func (q *Queue) Stop() {
	if q.lock != nil {
		q.lock.Lock()
		defer q.lock.Unlock()
	}
	atomic.StoreInt32(&q.active, 0)
	atomic.StoreInt32(&q.count, 0)
	q.head = nil
	q.tail = nil
	q.free = nil
}

// add appends with q.lock held.
func (q *Queue) add(ev Event) error {
	if atomic.LoadInt32(&q.count) >= MaxQueued {
		return errors.New("event queue is full")
	}

	var e *entry
	if q.free == nil {
		e = &entry{}
	} else {
		e = q.free
		q.free = q.free.next
	}
	e.ev = ev.Raw()
	e.next = nil

	if q.tail != nil {
		q.tail.next = e
		e.prev = q.tail
		q.tail = e
	} else {
		if q.head != nil {
			panic("invalid queue state, tail exists without head")
		}
		q.head = e
		q.tail = e
		e.prev = nil
	}
	atomic.AddInt32(&q.count, 1)
	return nil
}

// cut unlinks with q.lock held, returning the entry to the free list.
func (q *Queue) cut(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if e == q.head {
		q.head = e.next
	}
	if e == q.tail {
		q.tail = e.prev
	}
	e.prev = nil
	e.next = q.free
	q.free = e
	atomic.AddInt32(&q.count, -1)
}

// Push stamps the event and appends it to the queue.
func (q *Queue) Push(ev Event) error {
	if atomic.LoadInt32(&q.active) == 0 {
		return errors.New("event queue is not active")
	}
	raw := ev.Raw()
	binary.LittleEndian.PutUint32(raw[4:8], uint32(time.Since(q.start)/time.Millisecond))

	q.lock.Lock()
	defer q.lock.Unlock()
	return errors.Wrap(q.add(raw), "unable to push event")
}

// Poll removes and returns the oldest queued event, or
// WaitTimeoutExceeded when the queue is empty.
func (q *Queue) Poll() (Event, error) {
	return q.WaitTimeout(0)
}

// Wait blocks until an event is available.
func (q *Queue) Wait() (Event, error) {
	return q.WaitTimeout(-1)
}

// WaitTimeout blocks up to the given duration for an event. A zero
// timeout polls; a negative timeout waits forever.
func (q *Queue) WaitTimeout(timeout time.Duration) (Event, error) {
	var expiration time.Time
	if timeout > 0 {
		expiration = time.Now().Add(timeout)
	}

	for {
		if atomic.LoadInt32(&q.active) == 0 {
			return nil, errors.New("event queue is not active")
		}
		q.lock.Lock()
		if q.head != nil {
			ev := q.head.ev
			q.cut(q.head)
			q.lock.Unlock()
			return ev, nil
		}
		q.lock.Unlock()

		if timeout != -1 && (timeout == 0 || time.Now().After(expiration)) {
			return nil, WaitTimeoutExceeded
		}
		// same pacing as SDL's event loop
		time.Sleep(10 * time.Millisecond)
	}
}

// Count returns the number of queued events.
func (q *Queue) Count() int {
	return int(atomic.LoadInt32(&q.count))
}

// HasType reports whether an event of the given type is queued.
func (q *Queue) HasType(evType uint32) bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	for e := q.head; e != nil; e = e.next {
		if e.ev.Type() == evType {
			return true
		}
	}
	return false
}

// FlushTypes drops every queued event with a type in the inclusive
// range.
func (q *Queue) FlushTypes(minType, maxType uint32) {
	if atomic.LoadInt32(&q.active) == 0 {
		return
	}
	q.lock.Lock()
	defer q.lock.Unlock()
	e := q.head
	for e != nil {
		next := e.next
		if minType <= e.ev.Type() && e.ev.Type() <= maxType {
			q.cut(e)
		}
		e = next
	}
}

// FlushType drops every queued event of exactly the given type.
func (q *Queue) FlushType(evType uint32) {
	q.FlushTypes(evType, evType)
}
