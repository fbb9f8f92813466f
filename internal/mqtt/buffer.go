package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO that stores messages while the broker
// is unreachable. Not safe for concurrent use; the caller must synchronize.
type ringBuffer struct {
	buf      []bufferedMsg
	capacity int
	overflow bool // true if any message was dropped since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{capacity: capacity}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	if len(r.buf) == r.capacity {
		if !r.overflow {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", r.capacity)
			r.overflow = true
		}
		copy(r.buf, r.buf[1:])
		r.buf[len(r.buf)-1] = msg
		return
	}
	r.buf = append(r.buf, msg)
}

func (r *ringBuffer) drainAll() []bufferedMsg {
	if len(r.buf) == 0 {
		return nil
	}
	out := r.buf
	r.buf = nil
	r.overflow = false
	return out
}

func (r *ringBuffer) len() int {
	return len(r.buf)
}
