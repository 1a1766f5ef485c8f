package bootloader

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/HumpbackLab/go-at32isp/firmware"
	"github.com/HumpbackLab/go-at32isp/protocol"
)

// Device is the protocol surface the programmer needs. *protocol.Engine
// satisfies it; tests substitute a scripted fake.
type Device interface {
	Sync() error
	GetID() (protocol.DeviceIdentity, error)
	EraseAll() error
	WriteMemory(address uint32, data []byte) error
	ReadMemory(address uint32, length int) ([]byte, error)
}

// Programmer orchestrates a complete flash programming run: handshake,
// identification, erase, chunked writes, and optional read-back
// verification. It owns no wire detail; chunks are handed to the Device one
// synchronous command at a time.
type Programmer struct {
	dev    Device
	config Config
}

// New creates a Programmer over dev with the given options.
//
// Example:
//
//	eng := protocol.New(tr)
//	prog := bootloader.New(eng,
//	    bootloader.WithProgressCallback(progressFunc),
//	    bootloader.WithChunkSize(256),
//	)
func New(dev Device, opts ...Option) *Programmer {
	if dev == nil {
		panic("device cannot be nil")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Programmer{dev: dev, config: cfg}
}

// Program flashes segs:
//  1. Handshake and identify the device
//  2. Global erase (unless disabled)
//  3. Write every segment in chunks of ChunkSize bytes
//  4. Read back and compare (unless disabled)
//
// The run can be cancelled via ctx between chunks. Errors are returned to
// the caller unretried; retry policy, if wanted, belongs above this layer.
func (p *Programmer) Program(ctx context.Context, segs []firmware.Segment) error {
	total := firmware.TotalSize(segs)
	if total == 0 {
		return &EmptyImageError{}
	}
	start := time.Now()

	p.reportProgress(Progress{Phase: PhaseSyncing, TotalBytes: total})
	if err := p.dev.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	id, err := p.dev.GetID()
	if err != nil {
		return fmt.Errorf("identify: %w", err)
	}
	p.logDebug("device identified",
		"product_id", fmt.Sprintf("0x%08X", id.ProductID),
		"project_id", fmt.Sprintf("0x%02X", id.ProjectID),
	)

	if p.config.Erase {
		p.reportProgress(Progress{Phase: PhaseErasing, TotalBytes: total, Elapsed: time.Since(start)})
		if err := p.dev.EraseAll(); err != nil {
			return fmt.Errorf("erase: %w", err)
		}
		p.logDebug("flash erased", "elapsed", time.Since(start).String())
	}

	written := 0
	for _, seg := range segs {
		err := p.forEachChunk(ctx, seg, func(addr uint32, chunk []byte) error {
			if err := p.dev.WriteMemory(addr, chunk); err != nil {
				return fmt.Errorf("write %d bytes at 0x%08X: %w", len(chunk), addr, err)
			}
			written += len(chunk)
			p.reportProgress(Progress{
				Phase:        PhaseProgramming,
				BytesWritten: written,
				TotalBytes:   total,
				Percentage:   float64(written) / float64(total) * 100,
				Elapsed:      time.Since(start),
			})
			return nil
		})
		if err != nil {
			return err
		}
	}

	if p.config.Verify {
		p.reportProgress(Progress{
			Phase:        PhaseVerifying,
			BytesWritten: written,
			TotalBytes:   total,
			Percentage:   100,
			Elapsed:      time.Since(start),
		})
		if err := p.Verify(ctx, segs); err != nil {
			return err
		}
	}

	p.reportProgress(Progress{
		Phase:        PhaseComplete,
		BytesWritten: written,
		TotalBytes:   total,
		Percentage:   100,
		Elapsed:      time.Since(start),
	})
	p.logInfo("programming complete",
		"segments", len(segs),
		"bytes", written,
		"elapsed", time.Since(start).String(),
	)
	return nil
}

// Verify reads every segment back in chunks and compares it against segs.
// The first mismatching byte is reported as a *VerificationError.
func (p *Programmer) Verify(ctx context.Context, segs []firmware.Segment) error {
	for _, seg := range segs {
		err := p.forEachChunk(ctx, seg, func(addr uint32, chunk []byte) error {
			read, err := p.dev.ReadMemory(addr, len(chunk))
			if err != nil {
				return fmt.Errorf("read back %d bytes at 0x%08X: %w", len(chunk), addr, err)
			}
			if !bytes.Equal(read, chunk) {
				for i := range chunk {
					if read[i] != chunk[i] {
						return &VerificationError{
							Address:  addr + uint32(i),
							Expected: chunk[i],
							Actual:   read[i],
						}
					}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// forEachChunk walks a segment in ChunkSize slices, checking for
// cancellation before each one. Chunk boundaries are deterministic, so a
// write pass and a verify pass visit identical (address, length) pairs.
func (p *Programmer) forEachChunk(ctx context.Context, seg firmware.Segment, fn func(addr uint32, chunk []byte) error) error {
	data := seg.Data
	addr := seg.Address
	for len(data) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
		n := p.config.ChunkSize
		if n > len(data) {
			n = len(data)
		}
		if err := fn(addr, data[:n]); err != nil {
			return err
		}
		data = data[n:]
		addr += uint32(n)
	}
	return nil
}

// reportProgress calls the progress callback if configured.
func (p *Programmer) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}
