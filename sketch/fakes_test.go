package sketch

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/hubertat/swsketch/hal"
)

type level struct {
	state bool
	at    time.Duration
}

type fakeOutput struct {
	clock  *hal.ManualClock
	state  bool
	levels []level
	err    error
}

func (fo *fakeOutput) GetState() (bool, error) {
	return fo.state, nil
}

func (fo *fakeOutput) Set(state bool) error {
	if fo.err != nil {
		return fo.err
	}
	fo.state = state
	fo.levels = append(fo.levels, level{state: state, at: fo.clock.Elapsed()})
	return nil
}

type fakeOutputDriver struct {
	name    string
	ready   bool
	outputs map[uint16]*fakeOutput
}

func (fd *fakeOutputDriver) String() string { return fd.name }
func (fd *fakeOutputDriver) IsReady() bool  { return fd.ready }

func (fd *fakeOutputDriver) GetOutput(pin uint16) (hal.DigitalOutput, error) {
	out, ok := fd.outputs[pin]
	if !ok {
		return nil, fmt.Errorf("output %d not found", pin)
	}
	return out, nil
}

type fakeAnalog struct {
	value int
	err   error
	reads int
}

func (fa *fakeAnalog) Read() (int, error) {
	fa.reads++
	return fa.value, fa.err
}

type fakeAnalogDriver struct {
	name     string
	ready    bool
	channels map[uint16]*fakeAnalog
}

func (fd *fakeAnalogDriver) String() string { return fd.name }
func (fd *fakeAnalogDriver) IsReady() bool  { return fd.ready }

func (fd *fakeAnalogDriver) GetAnalog(channel uint16) (hal.AnalogInput, error) {
	in, ok := fd.channels[channel]
	if !ok {
		return nil, fmt.Errorf("channel %d not found", channel)
	}
	return in, nil
}

type fakeSerial struct {
	out    bytes.Buffer
	baud   int
	open   bool
	writes int
	err    error
}

func (fs *fakeSerial) String() string { return "fake_serial" }
func (fs *fakeSerial) IsOpen() bool   { return fs.open }
func (fs *fakeSerial) Baud() int      { return fs.baud }

func (fs *fakeSerial) Begin(baud int) error {
	fs.baud = baud
	fs.open = true
	return nil
}

func (fs *fakeSerial) Write(p []byte) (int, error) {
	fs.writes++
	if fs.err != nil {
		return 0, fs.err
	}
	return fs.out.Write(p)
}

type fakeMirror struct {
	readings []Reading
	err      error
}

func (fm *fakeMirror) PublishReading(r Reading) error {
	fm.readings = append(fm.readings, r)
	return fm.err
}

var errHardware = errors.New("hardware fault")
