package transport

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func connectedSim(t *testing.T, opts ...SimOption) *Simulator {
	t.Helper()
	sim := NewSimulator(opts...)
	if err := sim.Connect(Config{}); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { sim.Disconnect() })
	return sim
}

func TestSimulatorHandshake(t *testing.T) {
	sim := connectedSim(t)

	if err := sim.Write([]byte{0x7F}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := sim.Read(1, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got[0] != simAck {
		t.Errorf("handshake response = 0x%02X, want ACK", got[0])
	}
}

func TestSimulatorGetID(t *testing.T) {
	sim := connectedSim(t)

	if err := sim.Write([]byte{0x02, 0xFD}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := sim.Read(8, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []byte{simAck, 0x04, 0x41, 0x54, 0x33, 0x32, 0x01, simAck}
	if !bytes.Equal(got, want) {
		t.Errorf("response = % X, want % X", got, want)
	}
}

func TestSimulatorAcknowledgesFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"command pair", []byte{0x31, 0xCE}},
		{"read length pair", []byte{0x0F, 0xF0}},
		{"address frame", []byte{0x08, 0x00, 0x00, 0x00, 0x08}},
		{"erase payload", []byte{0xFF, 0xFF, 0x00}},
		{"data frame", []byte{0x01, 0xAA, 0xBB, 0x01 ^ 0xAA ^ 0xBB}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := connectedSim(t)
			if err := sim.Write(tt.frame); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := sim.Read(1, 100*time.Millisecond)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got[0] != simAck {
				t.Errorf("response = 0x%02X, want ACK", got[0])
			}
		})
	}
}

func TestSimulatorDropsMalformedFrames(t *testing.T) {
	sim := connectedSim(t)

	// Bad complement: neither a command pair nor a checksummed frame.
	if err := sim.Write([]byte{0x31, 0x00}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	_, err := sim.Read(1, 50*time.Millisecond)
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("error is %T, want *TimeoutError", err)
	}
	if timeout.Have != 0 {
		t.Errorf("Have = %d, want 0", timeout.Have)
	}
}

func TestSimulatorDelay(t *testing.T) {
	sim := connectedSim(t, WithDelay(50*time.Millisecond))

	if err := sim.Write([]byte{0x7F}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Not there yet.
	if _, err := sim.Read(1, 5*time.Millisecond); err == nil {
		t.Fatal("Read() succeeded before the artificial delay elapsed")
	}

	got, err := sim.Read(1, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() after delay error = %v", err)
	}
	if got[0] != simAck {
		t.Errorf("response = 0x%02X, want ACK", got[0])
	}
}

func TestReadTimeoutBounds(t *testing.T) {
	sim := connectedSim(t)

	start := time.Now()
	_, err := sim.Read(4, 80*time.Millisecond)
	elapsed := time.Since(start)

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("error is %T, want *TimeoutError", err)
	}
	if timeout.Want != 4 {
		t.Errorf("Want = %d, want 4", timeout.Want)
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("timed out after %v, before the deadline", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("timed out after %v, far past the deadline", elapsed)
	}
}

func TestReadPartialTimeoutReportsAvailable(t *testing.T) {
	sim := connectedSim(t)
	sim.Inject([]byte{0x01, 0x02})

	_, err := sim.Read(5, 50*time.Millisecond)
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("error is %T, want *TimeoutError", err)
	}
	if timeout.Want != 5 || timeout.Have != 2 {
		t.Errorf("got want=%d have=%d, expected want=5 have=2", timeout.Want, timeout.Have)
	}

	// The partial bytes were not consumed.
	got, err := sim.Read(2, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02}) {
		t.Errorf("data = % X, want 01 02", got)
	}
}

func TestReadFIFOAcrossChunks(t *testing.T) {
	sim := connectedSim(t)
	sim.Inject([]byte{0x01, 0x02})
	sim.Inject([]byte{0x03})
	sim.Inject([]byte{0x04, 0x05})

	got, err := sim.Read(3, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("first read = % X, want 01 02 03", got)
	}

	got, err = sim.Read(2, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x04, 0x05}) {
		t.Errorf("second read = % X, want 04 05", got)
	}
}

func TestFlushDiscardsBufferedBytes(t *testing.T) {
	sim := connectedSim(t)
	sim.Inject([]byte{0x01, 0x02, 0x03})
	sim.Flush()

	_, err := sim.Read(1, 30*time.Millisecond)
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("error is %T, want *TimeoutError", err)
	}
	if timeout.Have != 0 {
		t.Errorf("Have = %d after flush, want 0", timeout.Have)
	}
}

func TestDisconnectUnblocksRead(t *testing.T) {
	sim := connectedSim(t)

	errs := make(chan error, 1)
	go func() {
		_, err := sim.Read(1, 10*time.Second)
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	sim.Disconnect()

	select {
	case err := <-errs:
		var disc *DisconnectedError
		if !errors.As(err, &disc) {
			t.Fatalf("error is %T, want *DisconnectedError", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read() still blocked one second after Disconnect()")
	}
}

func TestBufferedBytesSurviveDisconnect(t *testing.T) {
	sim := connectedSim(t)
	sim.Inject([]byte{0x0A, 0x0B, 0x0C})
	if err := sim.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}

	got, err := sim.Read(3, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() of buffered bytes after disconnect error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x0A, 0x0B, 0x0C}) {
		t.Errorf("data = % X, want 0A 0B 0C", got)
	}

	// Nothing further can arrive.
	_, err = sim.Read(1, 10*time.Millisecond)
	var disc *DisconnectedError
	if !errors.As(err, &disc) {
		t.Fatalf("error is %T, want *DisconnectedError", err)
	}
}

func TestWriteWhenNotConnected(t *testing.T) {
	sim := NewSimulator()
	err := sim.Write([]byte{0x7F})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("error is %T, want *WriteError", err)
	}
}

func TestSimulatorCustomIdentity(t *testing.T) {
	identity := []byte{0x04, 0x10, 0x20, 0x30, 0x40, 0x07}
	sim := connectedSim(t, WithIdentity(identity))

	sim.Write([]byte{0x02, 0xFD})
	got, err := sim.Read(8, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := append(append([]byte{simAck}, identity...), simAck)
	if !bytes.Equal(got, want) {
		t.Errorf("response = % X, want % X", got, want)
	}
}
