package transport

import (
	"sync"
	"time"
)

// Bootloader bytes the simulator recognizes. Kept local so the transport
// package stays independent of the protocol layer.
const (
	simSync  = 0x7F
	simAck   = 0x79
	simGetID = 0x02
)

// defaultIdentity is the canned GET_ID payload: length byte, the AT32 product
// bytes in wire order, project id.
var defaultIdentity = []byte{0x04, 0x41, 0x54, 0x33, 0x32, 0x01}

// Simulator is a deterministic in-memory Transport for testing and demos.
// It has no real channel; instead each Write is run through a small response
// generator that recognizes the handshake byte and the GET_ID command and
// queues canned response bytes, and treats any well-formed two-byte
// command/complement pair or checksummed frame as an implicit acknowledgment.
//
// It is a minimal fixture, not a device model: commands other than GET_ID are
// acknowledged without any effect.
type Simulator struct {
	mu        sync.Mutex
	rx        *receiver
	connected bool
	delay     time.Duration
	identity  []byte
}

// SimOption configures a Simulator.
type SimOption func(*Simulator)

// WithDelay makes the simulator queue each response after an artificial
// delay, exercising the blocking behavior of Read.
func WithDelay(d time.Duration) SimOption {
	return func(s *Simulator) { s.delay = d }
}

// WithIdentity replaces the canned GET_ID payload (length byte, identity
// bytes in wire order, project id).
func WithIdentity(payload []byte) SimOption {
	return func(s *Simulator) { s.identity = payload }
}

// NewSimulator returns an unconnected simulator.
func NewSimulator(opts ...SimOption) *Simulator {
	s := &Simulator{identity: defaultIdentity}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Connect(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return &ConnectionError{Port: cfg.Port, Err: errAlreadyConnected}
	}
	s.rx = newReceiver()
	s.connected = true
	return nil
}

func (s *Simulator) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	s.connected = false
	s.rx.close()
	return nil
}

func (s *Simulator) Write(p []byte) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return &WriteError{}
	}
	rx := s.rx
	delay := s.delay
	identity := s.identity
	s.mu.Unlock()

	resp := respond(p, identity)
	if len(resp) == 0 {
		return nil
	}
	if delay > 0 {
		go func() {
			time.Sleep(delay)
			rx.inject(resp)
		}()
		return nil
	}
	rx.inject(resp)
	return nil
}

// respond is the response generator. Recognized writes:
//
//	0x7F                    handshake, acknowledged
//	[cmd, cmd^0xFF]         command pair; GET_ID additionally returns the
//	                        identity payload followed by a trailing ACK
//	[..., xor-checksum]     address or data frame whose trailing byte is the
//	                        XOR of the preceding bytes, acknowledged
//
// Anything else is silently dropped, which surfaces as a read timeout on the
// caller's side, same as a confused real device.
func respond(p []byte, identity []byte) []byte {
	if len(p) == 1 && p[0] == simSync {
		return []byte{simAck}
	}
	if len(p) == 2 && p[0]^p[1] == 0xFF {
		if p[0] == simGetID {
			resp := make([]byte, 0, len(identity)+2)
			resp = append(resp, simAck)
			resp = append(resp, identity...)
			return append(resp, simAck)
		}
		return []byte{simAck}
	}
	if len(p) >= 2 && xorAll(p) == 0 {
		return []byte{simAck}
	}
	return nil
}

func xorAll(p []byte) byte {
	var x byte
	for _, b := range p {
		x ^= b
	}
	return x
}

func (s *Simulator) Read(count int, timeout time.Duration) ([]byte, error) {
	s.mu.Lock()
	rx := s.rx
	s.mu.Unlock()
	if rx == nil {
		return nil, &DisconnectedError{}
	}
	return rx.read(count, timeout)
}

func (s *Simulator) Flush() {
	s.mu.Lock()
	rx := s.rx
	s.mu.Unlock()
	if rx != nil {
		rx.flush()
	}
}

// Inject queues raw bytes as if the device had sent them. Tests use this to
// script exchanges the response generator does not model.
func (s *Simulator) Inject(p []byte) {
	s.mu.Lock()
	rx := s.rx
	s.mu.Unlock()
	if rx != nil {
		rx.inject(p)
	}
}
