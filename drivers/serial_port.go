package drivers

import (
	"sync"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

const serialDriverName = "serial"
const defaultSerialPortName = "/dev/serial0"

// SerialPort is a UART device opened write-only in 8N1 framing.
type SerialPort struct {
	PortName string

	port serial.Port
	baud int
	lock sync.Mutex
}

func (sp *SerialPort) portName() string {
	if len(sp.PortName) > 0 {
		return sp.PortName
	}
	return defaultSerialPortName
}

func (sp *SerialPort) String() string {
	return serialDriverName
}

func (sp *SerialPort) Begin(baud int) (err error) {
	sp.lock.Lock()
	defer sp.lock.Unlock()

	if sp.port != nil {
		return errors.Errorf("serial port %s already open at %d baud", sp.portName(), sp.baud)
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	sp.port, err = serial.Open(sp.portName(), mode)
	if err != nil {
		sp.port = nil
		return errors.Wrapf(err, "failed to open serial port %s", sp.portName())
	}

	sp.baud = baud
	return nil
}

func (sp *SerialPort) IsOpen() bool {
	sp.lock.Lock()
	defer sp.lock.Unlock()

	return sp.port != nil
}

func (sp *SerialPort) Baud() int {
	sp.lock.Lock()
	defer sp.lock.Unlock()

	return sp.baud
}

func (sp *SerialPort) Write(p []byte) (int, error) {
	sp.lock.Lock()
	defer sp.lock.Unlock()

	if sp.port == nil {
		return 0, errors.Errorf("serial port %s not open", sp.portName())
	}
	return sp.port.Write(p)
}

func (sp *SerialPort) Close() error {
	sp.lock.Lock()
	defer sp.lock.Unlock()

	if sp.port == nil {
		return nil
	}
	err := sp.port.Close()
	sp.port = nil
	return err
}

// AvailablePorts lists the serial devices the OS reports.
func AvailablePorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list serial ports")
	}
	return ports, nil
}
