//go:build tinygo

package pico

import (
	"machine"
)

type Output struct {
	gpio     uint16
	pin      machine.Pin
	inverted bool
}

func (o *Output) GetState() (bool, error) {
	if o.inverted {
		return !o.pin.Get(), nil
	}
	return o.pin.Get(), nil
}

func (o *Output) Set(on bool) error {
	if o.inverted {
		on = !on
	}

	o.pin.Set(on)
	return nil
}

type OutputSlice []*Output

func (os OutputSlice) SetupPins() error {
	for _, out := range os {
		out.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		out.pin.Low()
	}

	return nil
}
