// Package transport provides the byte-stream channel used to talk to the
// AT32 UART bootloader.
//
// # Model
//
// The bootloader conversation is strictly request/response, but the serial
// line underneath is asynchronous: response bytes can arrive before the host
// gets around to reading them. Transport bridges the two by running a
// background ingestion task that collects every incoming byte into a FIFO
// receive buffer, and exposing a blocking primitive that waits for an exact
// byte count with a bounded timeout:
//
//	data, err := tr.Read(5, time.Second)
//
// Read never busy-waits; the caller suspends until bytes arrive, the timeout
// fires, or the transport is disconnected. Disconnecting promptly fails any
// waiting Read with *DisconnectedError instead of letting it hang.
//
// # Implementations
//
// Serial drives a real serial port via go.bug.st/serial:
//
//	tr := transport.NewSerial()
//	if err := tr.Connect(transport.DefaultConfig("/dev/ttyUSB0")); err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Disconnect()
//
// Simulator is a deterministic in-memory stand-in for tests and demos. It
// acknowledges the handshake and well-formed command frames and answers
// GET_ID with a canned identity:
//
//	tr := transport.NewSimulator()
//	tr.Connect(transport.Config{})
//
// # Errors
//
// All failures are typed: *ConnectionError (open failure), *WriteError,
// *TimeoutError (carries the byte count that was available), and
// *DisconnectedError.
package transport
