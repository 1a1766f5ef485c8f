package transport

import (
	"sync"
	"time"

	"go.bug.st/serial"
)

// Serial is a Transport over a real serial port.
//
// After Connect a background goroutine continuously reads whatever the port
// delivers and feeds it to the receive buffer, so device responses are
// captured even before the protocol layer asks for them. Disconnect stops
// the goroutine and unblocks any waiting Read.
type Serial struct {
	mu   sync.Mutex
	port serial.Port
	rx   *receiver
	wg   sync.WaitGroup
}

// NewSerial returns an unconnected serial transport.
func NewSerial() *Serial {
	return &Serial{}
}

func (s *Serial) Connect(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return &ConnectionError{Port: cfg.Port, Err: errAlreadyConnected}
	}

	port, err := serial.Open(cfg.Port, toMode(cfg))
	if err != nil {
		return &ConnectionError{Port: cfg.Port, Err: err}
	}

	s.port = port
	s.rx = newReceiver()
	s.wg.Add(1)
	go s.ingest(port, s.rx)
	return nil
}

// ingest pumps bytes from the port into the receive buffer until the port
// read fails, which happens promptly once Disconnect closes the port.
func (s *Serial) ingest(port serial.Port, rx *receiver) {
	defer s.wg.Done()
	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			rx.inject(buf[:n])
		}
		if err != nil {
			return
		}
		select {
		case <-rx.done:
			return
		default:
		}
	}
}

func (s *Serial) Disconnect() error {
	s.mu.Lock()
	port := s.port
	rx := s.rx
	s.port = nil
	s.mu.Unlock()

	if port == nil {
		return nil
	}
	rx.close()
	err := port.Close()
	s.wg.Wait()
	return err
}

func (s *Serial) Write(p []byte) error {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()
	if port == nil {
		return &WriteError{}
	}
	if _, err := port.Write(p); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

func (s *Serial) Read(count int, timeout time.Duration) ([]byte, error) {
	s.mu.Lock()
	rx := s.rx
	s.mu.Unlock()
	if rx == nil {
		return nil, &DisconnectedError{}
	}
	return rx.read(count, timeout)
}

func (s *Serial) Flush() {
	s.mu.Lock()
	rx := s.rx
	s.mu.Unlock()
	if rx != nil {
		rx.flush()
	}
}

// toMode maps the line configuration onto the serial library's mode.
func toMode(cfg Config) *serial.Mode {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
	}
	switch cfg.Parity {
	case OddParity:
		mode.Parity = serial.OddParity
	case EvenParity:
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}
	switch cfg.StopBits {
	case TwoStopBits:
		mode.StopBits = serial.TwoStopBits
	default:
		mode.StopBits = serial.OneStopBit
	}
	return mode
}
