package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubertat/swsketch"
	"github.com/hubertat/swsketch/drivers"
	"github.com/hubertat/swsketch/sketch"
)

var (
	Version string
	Build   string

	sketchName = flag.String("sketch", "blink", "sketch to run: blink or report")
	broker     = flag.String("mqtt", "", "optional mqtt broker url for mirroring readings")
)

// sineSource sweeps the full 10-bit range once every period.
func sineSource(period time.Duration) func() int {
	started := time.Now()
	return func() int {
		phase := float64(time.Since(started)) / float64(period) * 2 * math.Pi
		return int(math.Round((math.Sin(phase) + 1) / 2 * 1023))
	}
}

// feedSine drives a set up mock channel with sineSource.
func feedSine(analog *drivers.MockAnalogDriver, channel uint16, period time.Duration) error {
	in, err := analog.Input(channel)
	if err != nil {
		return err
	}
	in.SetSource(sineSource(period))
	return nil
}

func main() {
	flag.Parse()

	log.Info("swsketch started", "version", Version)
	log.Info("mock instance for testing purposes, should work on MacOs")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sw := &swsketch.SwSketch{
		Name:       "mock",
		MqttBroker: *broker,
	}
	switch *sketchName {
	case "blink":
		sw.Blinker = &sketch.Blinker{Name: "fake led", DriverName: "mock_driver"}
		sw.FakeDriver = &drivers.MockIoDriver{}
	case "report":
		sw.Reporter = &sketch.Reporter{Name: "fake sensor", AnalogDriver: "mock_analog", SerialDriver: "mock_serial"}
		sw.FakeAnalog = &drivers.MockAnalogDriver{}
		sw.FakeSerial = &drivers.MockSerial{Echo: os.Stdout}
	default:
		log.Fatal("unknown sketch", "sketch", *sketchName)
	}

	log.Info("will init drivers...")
	err := sw.InitDrivers(ctx)
	defer sw.Close()
	if err != nil {
		panic(err)
	}
	log.Info("will init sketches...")
	err = sw.InitSketches()
	if err != nil {
		panic(err)
	}

	sw.PrintIoStatus(os.Stdout)

	if sw.Blinker != nil {
		sw.FakeDriver.MonitorStateChanges(os.Stdout)
		err = sw.RunBlinker(ctx)
	} else {
		err = feedSine(sw.FakeAnalog, sketch.DefaultAnalogChannel, 10*time.Second)
		if err != nil {
			panic(err)
		}

		if len(sw.MqttBroker) > 0 {
			err = sw.InitMqtt()
			if err != nil {
				log.Warn("mqtt mirror disabled", "err", err)
			}
		}
		err = sw.RunReporter(ctx)
	}
	if err != nil {
		log.Fatal("sketch stopped", "err", err)
	}
}
