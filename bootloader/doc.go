// Package bootloader provides a high-level API for flashing AT32
// microcontrollers over the UART bootloader.
//
// # Overview
//
// The package orchestrates the complete programming sequence:
//   - Handshake and device identification
//   - Global flash erase
//   - Chunked writes of every firmware segment
//   - Read-back verification
//
// # Basic Usage
//
//	tr := transport.NewSerial()
//	if err := tr.Connect(transport.DefaultConfig("/dev/ttyUSB0")); err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Disconnect()
//
//	segs, err := firmware.Parse("app.hex", fileBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prog := bootloader.New(protocol.New(tr))
//	if err := prog.Program(context.Background(), segs); err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress Tracking
//
//	prog := bootloader.New(eng,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("[%s] %.1f%% (%d/%d bytes)\n",
//	            p.Phase, p.Percentage, p.BytesWritten, p.TotalBytes)
//	    }),
//	)
//
// # Policy
//
// The programmer retries nothing: every protocol error is returned to the
// caller as-is, wrapped with the failing address where that helps. Callers
// that want retry or recovery implement it on top.
package bootloader
