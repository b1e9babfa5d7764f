package sketch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hubertat/swsketch/hal"
)

const DefaultAnalogChannel uint16 = 0
const DefaultBaud = 9600
const DefaultReportIntervalMs uint32 = 100

type Reading struct {
	Channel uint16
	Value   int
	At      time.Time
}

// ChannelLabel returns the board name of an analog channel, A0 for 0.
func ChannelLabel(channel uint16) string {
	return fmt.Sprintf("A%d", channel)
}

// FormatReading is the serial line for a value: decimal digits and '\n'.
func FormatReading(value int) []byte {
	line := make([]byte, 0, 8)
	line = strconv.AppendInt(line, int64(value), 10)
	return append(line, '\n')
}

// sampleError is a failed read: it matches ErrSampleSkipped and unwraps to
// the driver's error.
type sampleError struct {
	channel uint16
	cause   error
}

func (se *sampleError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrSampleSkipped, ChannelLabel(se.channel), se.cause)
}

func (se *sampleError) Unwrap() error {
	return se.cause
}

func (se *sampleError) Is(target error) bool {
	return target == ErrSampleSkipped
}

// Mirror receives every reading after it reached the serial channel.
type Mirror interface {
	PublishReading(r Reading) error
}

type Reporter struct {
	Name         string
	AnalogDriver string
	Channel      uint16
	SerialDriver string
	Baud         int
	IntervalMs   uint32

	input   hal.AnalogInput
	serial  hal.SerialDriver
	sleeper hal.Sleeper
	mirrors []Mirror
	now     func() time.Time
}

func (rp *Reporter) String() string {
	if len(rp.Name) > 0 {
		return rp.Name
	}
	return fmt.Sprintf("reporter:%s:%s", rp.AnalogDriver, ChannelLabel(rp.Channel))
}

// ApplyDefaults fills zero values: 9600 baud, 100 ms. Channel 0 is A0 already.
func (rp *Reporter) ApplyDefaults() {
	if rp.Baud == 0 {
		rp.Baud = DefaultBaud
	}
	if rp.IntervalMs == 0 {
		rp.IntervalMs = DefaultReportIntervalMs
	}
}

func (rp *Reporter) Interval() time.Duration {
	return time.Duration(rp.IntervalMs) * time.Millisecond
}

func (rp *Reporter) UseSleeper(sleeper hal.Sleeper) {
	rp.sleeper = sleeper
}

func (rp *Reporter) AddMirror(m Mirror) {
	rp.mirrors = append(rp.mirrors, m)
}

// Init binds the analog channel and opens the serial channel.
func (rp *Reporter) Init(analog hal.AnalogDriver, serial hal.SerialDriver) (err error) {
	if analog == nil || serial == nil {
		return errors.New("Init failed, missing driver")
	}
	if !strings.EqualFold(analog.String(), rp.AnalogDriver) {
		return errors.Errorf("Init failed, mismatched or incorrect analog driver (%s, want %s)", analog, rp.AnalogDriver)
	}
	if !strings.EqualFold(serial.String(), rp.SerialDriver) {
		return errors.Errorf("Init failed, mismatched or incorrect serial driver (%s, want %s)", serial, rp.SerialDriver)
	}
	if !analog.IsReady() {
		return errors.New("Init failed, analog driver not ready")
	}

	rp.ApplyDefaults()

	rp.input, err = analog.GetAnalog(rp.Channel)
	if err != nil {
		return errors.Wrapf(err, "Init failed for channel %s", ChannelLabel(rp.Channel))
	}

	err = serial.Begin(rp.Baud)
	if err != nil {
		return errors.Wrapf(err, "Init failed opening serial at %d baud", rp.Baud)
	}
	rp.serial = serial

	if rp.sleeper == nil {
		rp.sleeper = hal.Blocking()
	}
	if rp.now == nil {
		rp.now = time.Now
	}

	return nil
}

// Tick samples once, writes the decimal line, hands the reading to mirrors
// and waits the interval. The interval is waited on every non-fatal path.
func (rp *Reporter) Tick() error {
	if rp.input == nil || rp.serial == nil {
		return errors.New("reporter not initialized")
	}
	if !rp.serial.IsOpen() {
		return errors.Errorf("serial %s is not open", rp.serial)
	}

	value, err := rp.input.Read()
	if err != nil {
		rp.sleeper.Sleep(rp.Interval())
		return &sampleError{channel: rp.Channel, cause: err}
	}

	_, err = rp.serial.Write(FormatReading(value))
	if err != nil {
		return errors.Wrapf(err, "failed writing reading to %s", rp.serial)
	}

	reading := Reading{Channel: rp.Channel, Value: value, At: rp.now()}
	var failed []string
	for _, m := range rp.mirrors {
		mErr := m.PublishReading(reading)
		if mErr != nil {
			failed = append(failed, mErr.Error())
		}
	}

	rp.sleeper.Sleep(rp.Interval())

	if len(failed) > 0 {
		return errors.Wrapf(ErrMirrorFailed, "%s", strings.Join(failed, "; "))
	}
	return nil
}
