package command

import "sync/atomic"

// Capacity is the fixed size of the command queue (spec §3: 8).
const Capacity = 8

// Queue is a bounded single-producer single-consumer ring buffer of
// Commands. The USB ISR context is the sole producer (Push); the scan
// task context is the sole consumer (Pop). No lock is required: head and
// tail are each touched by exactly one side, and the atomic load/store
// pair gives the other side a consistent view.
//
// All storage is a fixed-size array allocated with the Queue itself — no
// heap allocation, matching the no-allocation requirement of the rest of
// this firmware.
type Queue struct {
	buf  [Capacity]Command
	head uint32 // next slot to Pop, written only by the consumer
	tail uint32 // next slot to Push, written only by the producer
}

// Push enqueues c. It returns false if the queue is full, in which case
// the caller (the USB control-OUT handler) must reject the transfer so
// the host retries.
func (q *Queue) Push(c Command) bool {
	tail := atomic.LoadUint32(&q.tail)
	head := atomic.LoadUint32(&q.head)

	if tail-head >= Capacity {
		return false
	}

	q.buf[tail%Capacity] = c
	atomic.StoreUint32(&q.tail, tail+1)

	return true
}

// Pop dequeues the oldest Command. It returns false if the queue is
// empty.
func (q *Queue) Pop() (Command, bool) {
	head := atomic.LoadUint32(&q.head)
	tail := atomic.LoadUint32(&q.tail)

	if head == tail {
		return Command{}, false
	}

	c := q.buf[head%Capacity]
	atomic.StoreUint32(&q.head, head+1)

	return c, true
}

// Len returns the number of Commands currently queued. It is advisory
// only (racy with respect to a concurrent Push/Pop) and intended for
// diagnostics.
func (q *Queue) Len() int {
	tail := atomic.LoadUint32(&q.tail)
	head := atomic.LoadUint32(&q.head)
	return int(tail - head)
}
