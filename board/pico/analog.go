//go:build tinygo

package pico

import (
	"fmt"
	"machine"
)

// adcShift scales the 16-bit ADC reading to the 10-bit 0..1023 range.
const adcShift = 6

func adcPinFor(channel uint16) (machine.Pin, error) {
	switch channel {
	case 0:
		return machine.ADC0, nil
	case 1:
		return machine.ADC1, nil
	case 2:
		return machine.ADC2, nil
	}
	return machine.NoPin, fmt.Errorf("analog channel A%d not available (A0..A2)", channel)
}

type AnalogInput struct {
	channel uint16
	adc     machine.ADC
}

func (ai *AnalogInput) Read() (int, error) {
	return int(ai.adc.Get() >> adcShift), nil
}

type AnalogSlice []*AnalogInput

func (as AnalogSlice) SetupPins() error {
	for _, in := range as {
		in.adc.Configure(machine.ADCConfig{})
	}

	return nil
}
