package keyboard

import (
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	"github.td.teradata.com/sandbox/term-lessons/internal/config"
	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

// Serial is a key source attached to a serial line, e.g. a microcontroller
// sending the same byte sequences a terminal would.
type Serial struct {
	*Reader
	port io.ReadWriteCloser
}

func OpenSerial(cfg *config.Serial) (*Serial, error) {
	options := SerialOptions(cfg)
	port, err := serial.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w: %w", cfg.PortName, common.ErrIOFailure, err)
	}
	log.Infof("Opened port %s at %d baud", cfg.PortName, cfg.BaudRate)
	return &Serial{Reader: NewReader(port), port: port}, nil
}

func (s *Serial) Close() error {
	return s.port.Close()
}

// SerialOptions maps the serial configuration onto port options. Reads block
// until at least MinimumReadSize bytes arrive so an idle line is never
// mistaken for end of input.
func SerialOptions(cfg *config.Serial) serial.OpenOptions {
	minRead := cfg.MinimumReadSize
	if minRead < 1 {
		minRead = 1
	}
	return serial.OpenOptions{
		PortName:        cfg.PortName,
		BaudRate:        uint(cfg.BaudRate),
		DataBits:        uint(cfg.DataBits),
		StopBits:        toStopBits(cfg.StopBits),
		ParityMode:      toParity(cfg.Parity),
		MinimumReadSize: uint(minRead),
	}
}

func toStopBits(value int) uint {
	switch value {
	case 1, 2:
		return uint(value)
	default:
		log.Warnf("Invalid stop bits %d, using 1", value)
		return 1
	}
}

func toParity(value int) serial.ParityMode {
	switch value {
	case 0:
		return serial.PARITY_NONE
	case 1:
		return serial.PARITY_ODD
	case 2:
		return serial.PARITY_EVEN
	default:
		log.Warnf("Invalid parity %d, using none", value)
		return serial.PARITY_NONE
	}
}
