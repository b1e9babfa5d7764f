package sketch

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hubertat/swsketch/hal"
)

const DefaultBlinkPin uint16 = 11
const DefaultBlinkDelayMs uint32 = 1000

type Blinker struct {
	Name       string
	DriverName string

	// OutPin left out of the config means DefaultBlinkPin; 0 is a real pin.
	OutPin  *uint16
	DelayMs uint32

	output  hal.DigitalOutput
	sleeper hal.Sleeper
}

func (bl *Blinker) String() string {
	if len(bl.Name) > 0 {
		return bl.Name
	}
	return fmt.Sprintf("blinker:%s:%02d", bl.DriverName, bl.Pin())
}

// PinNumber is a config helper for setting OutPin from a literal.
func PinNumber(pin uint16) *uint16 {
	return &pin
}

// Pin is the output pin the blinker drives.
func (bl *Blinker) Pin() uint16 {
	if bl.OutPin == nil {
		return DefaultBlinkPin
	}
	return *bl.OutPin
}

func (bl *Blinker) GetDriverName() string {
	return bl.DriverName
}

// ApplyDefaults fills a zero delay with the board default of 1000 ms.
func (bl *Blinker) ApplyDefaults() {
	if bl.DelayMs == 0 {
		bl.DelayMs = DefaultBlinkDelayMs
	}
}

func (bl *Blinker) Delay() time.Duration {
	return time.Duration(bl.DelayMs) * time.Millisecond
}

func (bl *Blinker) UseSleeper(sleeper hal.Sleeper) {
	bl.sleeper = sleeper
}

// Init binds the blinker to an output the driver already configured in
// output mode. The pin mode stays fixed afterwards.
func (bl *Blinker) Init(driver hal.OutputDriver) (err error) {
	if driver == nil {
		return errors.New("Init failed, no driver")
	}
	if !strings.EqualFold(driver.String(), bl.DriverName) {
		return errors.Errorf("Init failed, mismatched or incorrect driver (%s, want %s)", driver, bl.DriverName)
	}
	if !driver.IsReady() {
		return errors.New("Init failed, driver not ready")
	}

	bl.ApplyDefaults()

	bl.output, err = driver.GetOutput(bl.Pin())
	if err != nil {
		return errors.Wrapf(err, "Init failed for pin %d", bl.Pin())
	}

	if bl.sleeper == nil {
		bl.sleeper = hal.Blocking()
	}

	return nil
}

// Tick runs one full cycle: active level, wait, inactive level, wait.
func (bl *Blinker) Tick() error {
	if bl.output == nil {
		return errors.New("blinker not initialized")
	}

	err := bl.output.Set(true)
	if err != nil {
		return errors.Wrapf(err, "failed to set pin %d high", bl.Pin())
	}
	bl.sleeper.Sleep(bl.Delay())

	err = bl.output.Set(false)
	if err != nil {
		return errors.Wrapf(err, "failed to set pin %d low", bl.Pin())
	}
	bl.sleeper.Sleep(bl.Delay())

	return nil
}
