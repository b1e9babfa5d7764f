package drivers

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hubertat/swsketch/hal"
)

const mockIoDriverName = "mock_driver"

// Transition is one recorded level change, At is relative to driver setup.
type Transition struct {
	Pin   uint16
	State bool
	At    time.Duration
}

func (tr Transition) String() string {
	level := "LOW"
	if tr.State {
		level = "HIGH"
	}
	return fmt.Sprintf("%s@%dms", level, tr.At.Milliseconds())
}

type MockOutput struct {
	state            bool
	pin              uint16
	writeTo          io.Writer
	writeStateChange bool
	driver           *MockIoDriver
}

func (mo *MockOutput) GetState() (bool, error) {
	return mo.state, nil
}

func (mo *MockOutput) Set(state bool) error {
	if mo.driver != nil {
		mo.driver.record(Transition{Pin: mo.pin, State: state, At: mo.driver.elapsed()})
	}
	if mo.writeStateChange && state != mo.state {
		fmt.Fprintf(mo.writeTo, "[pin %d] state changed to %v\n", mo.pin, state)
	}
	mo.state = state
	return nil
}

// MockIoDriver keeps outputs in memory and records every Set call.
type MockIoDriver struct {
	// Clock, when set, timestamps transitions instead of wall time.
	Clock func() time.Duration

	outputs     []*MockOutput
	transitions []Transition
	started     time.Time
	ready       bool
	lock        sync.Mutex
}

func (md *MockIoDriver) Setup(ctx context.Context, outputs []uint16) error {
	md.started = time.Now()
	for _, outPin := range outputs {
		md.outputs = append(md.outputs, &MockOutput{pin: outPin, driver: md})
	}
	md.ready = true
	return nil
}

func (md *MockIoDriver) elapsed() time.Duration {
	if md.Clock != nil {
		return md.Clock()
	}
	return time.Since(md.started)
}

func (md *MockIoDriver) record(tr Transition) {
	md.lock.Lock()
	defer md.lock.Unlock()

	md.transitions = append(md.transitions, tr)
}

// Transitions returns every recorded Set call in order.
func (md *MockIoDriver) Transitions() []Transition {
	md.lock.Lock()
	defer md.lock.Unlock()

	return append([]Transition(nil), md.transitions...)
}

func (md *MockIoDriver) Close() error {
	md.ready = false
	return nil
}

func (md *MockIoDriver) String() string {
	return mockIoDriverName
}

func (md *MockIoDriver) IsReady() bool {
	return md.ready
}

// IsOutput reports whether pin was configured as an output during Setup.
func (md *MockIoDriver) IsOutput(pin uint16) bool {
	for _, output := range md.outputs {
		if output.pin == pin {
			return true
		}
	}
	return false
}

func (md *MockIoDriver) GetOutput(pin uint16) (hal.DigitalOutput, error) {
	for _, output := range md.outputs {
		if pin == output.pin {
			return output, nil
		}
	}
	return nil, fmt.Errorf("mock output %d not found", pin)
}

func (md *MockIoDriver) GetAllIo() (outputs []uint16) {
	for _, output := range md.outputs {
		outputs = append(outputs, output.pin)
	}
	return
}

func (md *MockIoDriver) MonitorStateChanges(writer io.Writer) {
	for _, out := range md.outputs {
		out.writeTo = writer
		out.writeStateChange = true
	}
}
