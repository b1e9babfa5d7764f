package sketch

import (
	"testing"
	"time"

	"github.com/hubertat/swsketch/hal"
)

func newBlinkerFixture() (*Blinker, *fakeOutputDriver, *hal.ManualClock) {
	clock := &hal.ManualClock{}
	driver := &fakeOutputDriver{
		name:    "fake",
		ready:   true,
		outputs: map[uint16]*fakeOutput{11: {clock: clock}},
	}
	bl := &Blinker{DriverName: "fake"}
	bl.UseSleeper(clock)

	return bl, driver, clock
}

func TestBlinkerInit(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		bl, driver, _ := newBlinkerFixture()
		err := bl.Init(driver)
		if err != nil {
			t.Fatalf("Init returned err: %v", err)
		}
		if bl.Pin() != DefaultBlinkPin {
			t.Errorf("got pin %d want %d", bl.Pin(), DefaultBlinkPin)
		}
		if bl.Delay() != time.Second {
			t.Errorf("got delay %v want %v", bl.Delay(), time.Second)
		}
	})

	t.Run("mismatched driver", func(t *testing.T) {
		bl, driver, _ := newBlinkerFixture()
		bl.DriverName = "gpio"
		if bl.Init(driver) == nil {
			t.Error("got nil error when Init with mismatched driver")
		}
	})

	t.Run("driver not ready", func(t *testing.T) {
		bl, driver, _ := newBlinkerFixture()
		driver.ready = false
		if bl.Init(driver) == nil {
			t.Error("got nil error when Init with not ready driver")
		}
	})

	t.Run("pin not configured", func(t *testing.T) {
		bl, driver, _ := newBlinkerFixture()
		bl.OutPin = PinNumber(7)
		if bl.Init(driver) == nil {
			t.Error("got nil error when Init with unknown pin")
		}
	})

	t.Run("pin zero", func(t *testing.T) {
		bl, driver, clock := newBlinkerFixture()
		driver.outputs[0] = &fakeOutput{clock: clock}
		bl.OutPin = PinNumber(0)
		if err := bl.Init(driver); err != nil {
			t.Fatalf("Init returned err: %v", err)
		}
		if err := bl.Tick(); err != nil {
			t.Fatalf("Tick returned err: %v", err)
		}
		if len(driver.outputs[0].levels) != 2 || len(driver.outputs[11].levels) != 0 {
			t.Errorf("pin 0 got %d levels, pin 11 got %d, want 2 and 0", len(driver.outputs[0].levels), len(driver.outputs[11].levels))
		}
	})

	t.Run("nil driver", func(t *testing.T) {
		bl := &Blinker{}
		if bl.Init(nil) == nil {
			t.Error("got nil error when Init with nil driver")
		}
	})
}

func TestBlinkerTickBeforeInit(t *testing.T) {
	bl := &Blinker{}
	if bl.Tick() == nil {
		t.Error("got nil error from Tick before Init")
	}
}

func TestBlinkerThreeCycles(t *testing.T) {
	bl, driver, clock := newBlinkerFixture()
	if err := bl.Init(driver); err != nil {
		t.Fatalf("Init returned err: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := bl.Tick(); err != nil {
			t.Fatalf("Tick %d returned err: %v", i, err)
		}
	}

	want := []level{
		{true, 0},
		{false, 1000 * time.Millisecond},
		{true, 2000 * time.Millisecond},
		{false, 3000 * time.Millisecond},
		{true, 4000 * time.Millisecond},
		{false, 5000 * time.Millisecond},
	}
	got := driver.outputs[11].levels
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d len(want) = %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition [%d] got %+v want %+v", i, got[i], want[i])
		}
	}

	if clock.Elapsed() != 6*time.Second {
		t.Errorf("got elapsed %v want %v", clock.Elapsed(), 6*time.Second)
	}
}

func TestBlinkerCustomDelay(t *testing.T) {
	bl, driver, clock := newBlinkerFixture()
	bl.DelayMs = 250
	if err := bl.Init(driver); err != nil {
		t.Fatalf("Init returned err: %v", err)
	}
	if err := bl.Tick(); err != nil {
		t.Fatalf("Tick returned err: %v", err)
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 2 || sleeps[0] != 250*time.Millisecond || sleeps[1] != 250*time.Millisecond {
		t.Errorf("got sleeps %v want two of 250ms", sleeps)
	}
}

func TestBlinkerSetFailure(t *testing.T) {
	bl, driver, clock := newBlinkerFixture()
	if err := bl.Init(driver); err != nil {
		t.Fatalf("Init returned err: %v", err)
	}
	driver.outputs[11].err = errHardware

	err := bl.Tick()
	if err == nil {
		t.Fatal("got nil error from Tick with failing output")
	}
	if IsTransient(err) {
		t.Error("output failure should be fatal")
	}
	if clock.Elapsed() != 0 {
		t.Errorf("got elapsed %v want 0", clock.Elapsed())
	}
}
