// Command at32isp flashes, reads, and inspects AT32 microcontrollers over
// the UART bootloader.
//
// Usage:
//
//	at32isp -p /dev/ttyUSB0 -f app.hex            flash a firmware file
//	at32isp -p /dev/ttyUSB0 -read -n 4096 -o out  read flash to a file
//	at32isp -p /dev/ttyUSB0 -erase                erase the whole chip
//	at32isp -p /dev/ttyUSB0 -id                   print device identity
//	at32isp -p /dev/ttyUSB0 -version              print bootloader version
//	at32isp -p /dev/ttyUSB0 -crc 16               device CRC over 16 sectors
//	at32isp -sim -f app.bin                       dry run on the simulator
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/HumpbackLab/go-at32isp/bootloader"
	"github.com/HumpbackLab/go-at32isp/firmware"
	"github.com/HumpbackLab/go-at32isp/protocol"
	"github.com/HumpbackLab/go-at32isp/transport"
)

var (
	fPort    = flag.String("p", "/dev/ttyUSB0", "serial port connected to the device")
	fBaud    = flag.Int("b", transport.DefaultBaudRate, "baud rate")
	fFile    = flag.String("f", "", "firmware file to flash (bin, hex, or elf)")
	fAddr    = flag.String("a", "0x08000000", "flash address for read and crc operations")
	fLen     = flag.Int("n", 4096, "byte count for the read operation")
	fOut     = flag.String("o", "flash.bin", "output file for the read operation")
	fRead    = flag.Bool("read", false, "read flash memory to a file")
	fErase   = flag.Bool("erase", false, "erase the entire flash")
	fID      = flag.Bool("id", false, "print the device identity")
	fVersion = flag.Bool("version", false, "print the bootloader version")
	fCRC     = flag.Int("crc", 0, "compute the device CRC over this many sectors")
	fGo      = flag.Uint64("go", 0, "jump to this application address after other operations")
	fNoVer   = flag.Bool("no-verify", false, "skip read-back verification after flashing")
	fNoErase = flag.Bool("no-erase", false, "skip the erase before flashing")
	fSim     = flag.Bool("sim", false, "use the built-in simulator instead of a serial port")
	fVerbose = flag.Bool("v", false, "verbose logging")
)

// zapAdapter exposes a SugaredLogger through the bootloader.Logger interface.
type zapAdapter struct{ s *zap.SugaredLogger }

func (a zapAdapter) Debug(msg string, kv ...interface{}) { a.s.Debugw(msg, kv...) }
func (a zapAdapter) Info(msg string, kv ...interface{})  { a.s.Infow(msg, kv...) }
func (a zapAdapter) Error(msg string, kv ...interface{}) { a.s.Errorw(msg, kv...) }

func main() {
	flag.Parse()

	cfg := zap.NewDevelopmentConfig()
	if !*fVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(sugar); err != nil {
		sugar.Fatalw("operation failed", "error", err)
	}
}

func run(sugar *zap.SugaredLogger) error {
	var tr transport.Transport
	if *fSim {
		tr = transport.NewSimulator(transport.WithDelay(time.Millisecond))
	} else {
		tr = transport.NewSerial()
	}

	lineCfg := transport.DefaultConfig(*fPort)
	lineCfg.BaudRate = *fBaud
	if err := tr.Connect(lineCfg); err != nil {
		return err
	}
	defer tr.Disconnect()

	eng := protocol.New(tr)
	if err := eng.Sync(); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	sugar.Debugw("handshake complete", "port", *fPort, "baud", *fBaud)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *fID:
		id, err := eng.GetID()
		if err != nil {
			return err
		}
		fmt.Println(id)
	case *fVersion:
		ver, err := eng.GetVersion()
		if err != nil {
			return err
		}
		fmt.Printf("bootloader v%s, option bytes %02X %02X\n",
			ver, ver.OptionBytes[0], ver.OptionBytes[1])
	case *fErase:
		sugar.Info("erasing flash")
		if err := eng.EraseAll(); err != nil {
			return err
		}
		sugar.Info("flash erased")
	case *fCRC > 0:
		addr, err := parseAddr(*fAddr)
		if err != nil {
			return err
		}
		crc, err := eng.FirmwareCRC(addr, *fCRC)
		if err != nil {
			return err
		}
		fmt.Printf("CRC 0x%08X over %d sectors at 0x%08X\n", crc, *fCRC, addr)
	case *fRead:
		addr, err := parseAddr(*fAddr)
		if err != nil {
			return err
		}
		if err := readFlash(eng, addr, *fLen, *fOut); err != nil {
			return err
		}
		sugar.Infow("flash read", "bytes", *fLen, "file", *fOut)
	case *fFile != "":
		if err := flash(ctx, eng, sugar, *fFile); err != nil {
			return err
		}
	default:
		flag.Usage()
		return fmt.Errorf("no operation requested")
	}

	if *fGo != 0 {
		sugar.Infow("starting application", "address", fmt.Sprintf("0x%08X", *fGo))
		return eng.Go(uint32(*fGo))
	}
	return nil
}

func flash(ctx context.Context, eng *protocol.Engine, sugar *zap.SugaredLogger, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	segs, err := firmware.Parse(path, data)
	if err != nil {
		return err
	}
	sugar.Infow("firmware parsed",
		"file", path,
		"segments", len(segs),
		"bytes", firmware.TotalSize(segs),
	)

	bar := progressbar.NewOptions(firmware.TotalSize(segs),
		progressbar.OptionSetDescription("flashing"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
	prog := bootloader.New(eng,
		bootloader.WithLogger(zapAdapter{sugar}),
		bootloader.WithErase(!*fNoErase),
		bootloader.WithVerify(!*fNoVer),
		bootloader.WithProgressCallback(func(p bootloader.Progress) {
			switch p.Phase {
			case bootloader.PhaseProgramming:
				bar.Set(p.BytesWritten)
			case bootloader.PhaseVerifying:
				bar.Describe("verifying")
			case bootloader.PhaseComplete:
				bar.Finish()
			}
		}),
	)
	if err := prog.Program(ctx, segs); err != nil {
		return err
	}
	sugar.Info("flashing complete")
	return nil
}

func readFlash(eng *protocol.Engine, addr uint32, length int, out string) error {
	buf := make([]byte, 0, length)
	for length > 0 {
		n := length
		if n > protocol.MaxChunkSize {
			n = protocol.MaxChunkSize
		}
		chunk, err := eng.ReadMemory(addr, n)
		if err != nil {
			return fmt.Errorf("read at 0x%08X: %w", addr, err)
		}
		buf = append(buf, chunk...)
		addr += uint32(n)
		length -= n
	}
	return os.WriteFile(out, buf, 0o644)
}

func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint32(v), nil
}
