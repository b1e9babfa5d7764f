//go:build tinygo

// Package pico binds the hal interfaces to a Raspberry Pi Pico: GPIO
// outputs, the ADC inputs on GP26..GP28 and UART0.
package pico

import (
	"errors"
	"fmt"
	"machine"

	"github.com/hubertat/swsketch/hal"
)

const (
	outputDriverName = "pico"
	analogDriverName = "pico_adc"
	serialDriverName = "uart"

	lastGpio = 28
)

// Board owns the pins configured for the sketches.
type Board struct {
	outputs OutputSlice
	inputs  AnalogSlice
	uart    *Uart
}

// New configures the given GPIOs as outputs and channels as ADC inputs.
func New(outPins []uint16, channels []uint16) (*Board, error) {
	b := &Board{uart: &Uart{uart: machine.DefaultUART}}

	for _, pin := range outPins {
		if pin > lastGpio {
			return nil, fmt.Errorf("pin GP%d out of range", pin)
		}
		b.outputs = append(b.outputs, &Output{gpio: pin, pin: machine.Pin(pin)})
	}
	for _, ch := range channels {
		adcPin, err := adcPinFor(ch)
		if err != nil {
			return nil, err
		}
		b.inputs = append(b.inputs, &AnalogInput{channel: ch, adc: machine.ADC{Pin: adcPin}})
	}

	err := b.outputs.SetupPins()
	if err != nil {
		return nil, errors.Join(err, errors.New("failed to setup output pins"))
	}

	if len(b.inputs) > 0 {
		machine.InitADC()
		err = b.inputs.SetupPins()
		if err != nil {
			return nil, errors.Join(err, errors.New("failed to setup adc pins"))
		}
	}

	return b, nil
}

// Outputs is the board seen as a hal.OutputDriver.
func (b *Board) Outputs() hal.OutputDriver {
	return outputDriver{b}
}

// Analog is the board seen as a hal.AnalogDriver.
func (b *Board) Analog() hal.AnalogDriver {
	return analogDriver{b}
}

func (b *Board) Serial() hal.SerialDriver {
	return b.uart
}

type outputDriver struct{ b *Board }

func (od outputDriver) String() string { return outputDriverName }
func (od outputDriver) IsReady() bool  { return true }

func (od outputDriver) GetOutput(pin uint16) (hal.DigitalOutput, error) {
	for _, out := range od.b.outputs {
		if out.gpio == pin {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output GP%d not configured", pin)
}

type analogDriver struct{ b *Board }

func (ad analogDriver) String() string { return analogDriverName }
func (ad analogDriver) IsReady() bool  { return len(ad.b.inputs) > 0 }

func (ad analogDriver) GetAnalog(channel uint16) (hal.AnalogInput, error) {
	for _, in := range ad.b.inputs {
		if in.channel == channel {
			return in, nil
		}
	}
	return nil, fmt.Errorf("analog channel A%d not configured", channel)
}
