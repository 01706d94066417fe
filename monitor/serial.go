package monitor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.bug.st/serial"
)

// SerialPortNone reads receiver lines from stdin instead of a serial port
const SerialPortNone = "None (stdin)"

var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists the USB serial ports. A micro:bit shows up as a USB modem/ACM device
func GetSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var result []string
	for _, p := range ports {
		lower := strings.ToLower(p)
		if strings.Contains(lower, "usb") || strings.Contains(lower, "acm") {
			result = append(result, p)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}

	return result, nil
}

// openSerial opens the receiver's console. It returns nil when reading from stdin
func openSerial(cfg Config) (io.ReadWriteCloser, error) {
	if cfg.SerialPort == SerialPortNone {
		return nil, nil
	}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: cfg.Baud()})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", cfg.SerialPort, err)
	}

	return port, nil
}
