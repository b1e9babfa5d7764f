package drivers

import (
	"context"

	"github.com/hubertat/swsketch/hal"
)

type IoDriver interface {
	Setup(ctx context.Context, outputs []uint16) error
	Close() error
	String() string
	IsReady() bool
	GetOutput(pin uint16) (hal.DigitalOutput, error)
	GetAllIo() (outputs []uint16)
}

func MapAllIoDrivers() map[string]IoDriver {
	drivers := []IoDriver{
		&GpIO{},
		&McpIO{},
		&MockIoDriver{},
	}

	mapped := make(map[string]IoDriver)
	for _, driver := range drivers {
		mapped[driver.String()] = driver
	}
	return mapped
}

type AnalogDriver interface {
	Setup(ctx context.Context, channels []uint16) error
	Close() error
	String() string
	IsReady() bool
	GetAnalog(channel uint16) (hal.AnalogInput, error)
	Channels() []uint16
}

func MapAllAnalogDrivers() map[string]AnalogDriver {
	drivers := []AnalogDriver{
		&Mcp3008{},
		&IioAnalog{},
		&MockAnalogDriver{},
	}

	mapped := make(map[string]AnalogDriver)
	for _, driver := range drivers {
		mapped[driver.String()] = driver
	}
	return mapped
}

type SerialDriver interface {
	hal.SerialDriver
	Close() error
}

func MapAllSerialDrivers() map[string]SerialDriver {
	drivers := []SerialDriver{
		&SerialPort{},
		&MockSerial{},
	}

	mapped := make(map[string]SerialDriver)
	for _, driver := range drivers {
		mapped[driver.String()] = driver
	}
	return mapped
}
