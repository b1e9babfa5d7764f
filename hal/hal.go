// Package hal holds the hardware interfaces the sketches are written against.
// It depends on the standard library only, so the same sketches build for a
// Linux host and for TinyGo targets.
package hal

import (
	"io"
	"time"
)

// DigitalOutput is a single pin configured as output. true is the active level.
type DigitalOutput interface {
	GetState() (bool, error)
	Set(bool) error
}

// AnalogInput is a single converter channel.
type AnalogInput interface {
	Read() (int, error)
}

// OutputDriver hands out output pins it configured during its own setup.
type OutputDriver interface {
	String() string
	IsReady() bool
	GetOutput(pin uint16) (DigitalOutput, error)
}

// AnalogDriver hands out analog channels it configured during its own setup.
type AnalogDriver interface {
	String() string
	IsReady() bool
	GetAnalog(channel uint16) (AnalogInput, error)
}

// SerialDriver is a write-only byte link. Begin must be called before Write.
type SerialDriver interface {
	io.Writer
	String() string
	Begin(baud int) error
	IsOpen() bool
	Baud() int
}

type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a plain function, usually time.Sleep, to Sleeper.
type SleepFunc func(d time.Duration)

func (f SleepFunc) Sleep(d time.Duration) {
	f(d)
}

// Blocking returns the sleeper used on real hardware.
func Blocking() Sleeper {
	return SleepFunc(time.Sleep)
}
