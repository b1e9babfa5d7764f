package drivers

import (
	"context"
	"fmt"
	"sync"

	"github.com/hubertat/swsketch/hal"
)

const mockAnalogDriverName = "mock_analog"

type MockAnalogInput struct {
	channel uint16

	lock  sync.Mutex
	value int
	err   error
	reads int
	next  func() int
}

func (mi *MockAnalogInput) Read() (int, error) {
	mi.lock.Lock()
	defer mi.lock.Unlock()

	mi.reads++
	if mi.err != nil {
		return 0, mi.err
	}
	if mi.next != nil {
		mi.value = mi.next()
	}
	return mi.value, nil
}

// SetValue fixes the value returned by every following Read.
func (mi *MockAnalogInput) SetValue(value int) {
	mi.lock.Lock()
	defer mi.lock.Unlock()

	mi.value = value
	mi.next = nil
}

// SetSource makes every following Read return source().
func (mi *MockAnalogInput) SetSource(source func() int) {
	mi.lock.Lock()
	defer mi.lock.Unlock()

	mi.next = source
}

// SetError makes every following Read fail, nil clears it.
func (mi *MockAnalogInput) SetError(err error) {
	mi.lock.Lock()
	defer mi.lock.Unlock()

	mi.err = err
}

func (mi *MockAnalogInput) Reads() int {
	mi.lock.Lock()
	defer mi.lock.Unlock()

	return mi.reads
}

type MockAnalogDriver struct {
	// Values preset channel readings before Setup, keyed by channel.
	Values map[uint16]int

	inputs []*MockAnalogInput
	ready  bool
}

func (md *MockAnalogDriver) Setup(ctx context.Context, channels []uint16) error {
	for _, ch := range channels {
		md.inputs = append(md.inputs, &MockAnalogInput{channel: ch, value: md.Values[ch]})
	}
	md.ready = true
	return nil
}

func (md *MockAnalogDriver) Close() error {
	md.ready = false
	return nil
}

func (md *MockAnalogDriver) String() string {
	return mockAnalogDriverName
}

func (md *MockAnalogDriver) IsReady() bool {
	return md.ready
}

// Input returns the mock behind a channel so tests can program it.
func (md *MockAnalogDriver) Input(channel uint16) (*MockAnalogInput, error) {
	for _, in := range md.inputs {
		if in.channel == channel {
			return in, nil
		}
	}
	return nil, fmt.Errorf("mock analog channel %d not found", channel)
}

func (md *MockAnalogDriver) GetAnalog(channel uint16) (hal.AnalogInput, error) {
	in, err := md.Input(channel)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (md *MockAnalogDriver) Channels() (channels []uint16) {
	for _, in := range md.inputs {
		channels = append(channels, in.channel)
	}
	return
}
