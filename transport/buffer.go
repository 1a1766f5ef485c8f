package transport

import (
	"sync"
	"time"
)

// receiver is the buffer shared by both transport implementations. Incoming
// chunks are handed over on a channel by whatever produces them (the serial
// ingestion goroutine, or the simulator's response generator) and appended to
// buf by the consuming side. buf is only touched under mu, so the producer
// never mutates the buffer directly.
type receiver struct {
	mu       sync.Mutex
	buf      []byte
	incoming chan []byte
	done     chan struct{}
}

func newReceiver() *receiver {
	return &receiver{
		incoming: make(chan []byte, 64),
		done:     make(chan struct{}),
	}
}

// inject hands a chunk of received bytes to the buffer. It returns once the
// chunk is queued, or immediately if the receiver has been closed.
func (r *receiver) inject(p []byte) {
	if len(p) == 0 {
		return
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	select {
	case r.incoming <- chunk:
	case <-r.done:
	}
}

// drain moves every chunk already queued on the channel into buf without
// blocking.
func (r *receiver) drain() {
	for {
		select {
		case chunk := <-r.incoming:
			r.mu.Lock()
			r.buf = append(r.buf, chunk...)
			r.mu.Unlock()
		default:
			return
		}
	}
}

// take removes count bytes from the front of buf if that many are buffered.
// The second result is the number of bytes currently available.
func (r *receiver) take(count int) ([]byte, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) < count {
		return nil, len(r.buf)
	}
	out := make([]byte, count)
	copy(out, r.buf)
	r.buf = r.buf[count:]
	return out, len(r.buf)
}

func (r *receiver) closed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// read implements the blocking "exactly count bytes within timeout" primitive
// on top of the chunk channel. Waiting is event-driven: the caller suspends
// on the channel until bytes arrive, the timeout fires, or the receiver is
// closed. Bytes buffered before a close remain consumable as long as the
// request can be satisfied without waiting.
func (r *receiver) read(count int, timeout time.Duration) ([]byte, error) {
	if count <= 0 {
		return nil, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		r.drain()
		out, have := r.take(count)
		if out != nil {
			return out, nil
		}
		if r.closed() {
			return nil, &DisconnectedError{}
		}
		select {
		case chunk := <-r.incoming:
			r.mu.Lock()
			r.buf = append(r.buf, chunk...)
			r.mu.Unlock()
		case <-r.done:
			// Loop once more: a chunk may have landed just before the
			// close and still satisfy the request.
			r.drain()
			if out, _ := r.take(count); out != nil {
				return out, nil
			}
			return nil, &DisconnectedError{}
		case <-timer.C:
			r.drain()
			out, have = r.take(count)
			if out != nil {
				return out, nil
			}
			return nil, &TimeoutError{Want: count, Have: have}
		}
	}
}

// flush discards everything buffered and everything still queued.
func (r *receiver) flush() {
	r.drain()
	r.mu.Lock()
	r.buf = nil
	r.mu.Unlock()
}

// close wakes any waiting read. Safe to call once only; callers guard.
func (r *receiver) close() {
	close(r.done)
}
