package swsketch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/hubertat/swsketch/drivers"
	"github.com/hubertat/swsketch/hal"
	"github.com/hubertat/swsketch/mqtt"
	"github.com/hubertat/swsketch/sketch"
)

const defaultName = "swsketch"

type SwSketch struct {
	Name string

	Blinker  *sketch.Blinker
	Reporter *sketch.Reporter

	MqttBroker string
	Influx     *drivers.InfluxSink

	Gpio       *drivers.GpIO
	Mcp23017   *drivers.McpIO
	FakeDriver *drivers.MockIoDriver

	Mcp3008    *drivers.Mcp3008
	Iio        *drivers.IioAnalog
	FakeAnalog *drivers.MockAnalogDriver

	Serial     *drivers.SerialPort
	FakeSerial *drivers.MockSerial

	ioDrivers     map[string]drivers.IoDriver
	analogDrivers map[string]drivers.AnalogDriver
	serialDrivers map[string]drivers.SerialDriver
	mqttClient    *mqtt.MqttClient
	sleeper       hal.Sleeper
	logger        *log.Logger
}

func (sw *SwSketch) name() string {
	if len(sw.Name) > 0 {
		return sw.Name
	}
	return defaultName
}

func (sw *SwSketch) getLogger() *log.Logger {
	if sw.logger == nil {
		sw.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix:          sw.name(),
			Level:           log.GetLevel(),
			ReportTimestamp: true,
		})
	}
	return sw.logger
}

// UseSleeper replaces the blocking sleep of both sketches, set before InitSketches.
func (sw *SwSketch) UseSleeper(sleeper hal.Sleeper) {
	sw.sleeper = sleeper
}

func (sw *SwSketch) getOutPins(driverName string) (pins []uint16) {
	if sw.Blinker != nil && strings.EqualFold(sw.Blinker.DriverName, driverName) {
		pins = append(pins, sw.Blinker.Pin())
	}

	return
}

func (sw *SwSketch) getAnalogChannels(driverName string) (channels []uint16) {
	if sw.Reporter != nil && strings.EqualFold(sw.Reporter.AnalogDriver, driverName) {
		channels = append(channels, sw.Reporter.Channel)
	}

	return
}

// checkDriver tells an unknown driver name apart from a known driver left
// out of the config.
func checkDriver[D any](name, usedBy string, active, known map[string]D) error {
	name = strings.ToLower(name)
	if _, found := active[name]; found {
		return nil
	}
	if _, found := known[name]; !found {
		return errors.Errorf("unknown driver %q (used by %s), available: %s", name, usedBy, strings.Join(sortedKeys(known), ", "))
	}
	return errors.Errorf("driver %s not set up (used by %s)", name, usedBy)
}

func (sw *SwSketch) InitDrivers(ctx context.Context) error {
	sw.ioDrivers = make(map[string]drivers.IoDriver)
	sw.analogDrivers = make(map[string]drivers.AnalogDriver)
	sw.serialDrivers = make(map[string]drivers.SerialDriver)

	if sw.Gpio != nil {
		sw.ioDrivers[sw.Gpio.String()] = sw.Gpio
	}
	if sw.Mcp23017 != nil {
		sw.ioDrivers[sw.Mcp23017.String()] = sw.Mcp23017
	}
	if sw.FakeDriver != nil {
		sw.ioDrivers[sw.FakeDriver.String()] = sw.FakeDriver
	}

	if sw.Mcp3008 != nil {
		sw.analogDrivers[sw.Mcp3008.String()] = sw.Mcp3008
	}
	if sw.Iio != nil {
		sw.analogDrivers[sw.Iio.String()] = sw.Iio
	}
	if sw.FakeAnalog != nil {
		sw.analogDrivers[sw.FakeAnalog.String()] = sw.FakeAnalog
	}

	if sw.Serial != nil {
		sw.serialDrivers[sw.Serial.String()] = sw.Serial
	}
	if sw.FakeSerial != nil {
		sw.serialDrivers[sw.FakeSerial.String()] = sw.FakeSerial
	}

	if sw.Blinker != nil {
		err := checkDriver(sw.Blinker.DriverName, sw.Blinker.String(), sw.ioDrivers, drivers.MapAllIoDrivers())
		if err != nil {
			return err
		}
	}
	if sw.Reporter != nil {
		err := checkDriver(sw.Reporter.AnalogDriver, sw.Reporter.String(), sw.analogDrivers, drivers.MapAllAnalogDrivers())
		if err != nil {
			return err
		}
		err = checkDriver(sw.Reporter.SerialDriver, sw.Reporter.String(), sw.serialDrivers, drivers.MapAllSerialDrivers())
		if err != nil {
			return err
		}
	}

	for _, driver := range sw.ioDrivers {
		err := driver.Setup(ctx, sw.getOutPins(driver.String()))
		if err != nil {
			return errors.Wrapf(err, "failed to setup %s driver", driver)
		}
	}

	for _, driver := range sw.analogDrivers {
		err := driver.Setup(ctx, sw.getAnalogChannels(driver.String()))
		if err != nil {
			return errors.Wrapf(err, "failed to setup %s driver", driver)
		}
	}

	return nil
}

func (sw *SwSketch) InitSketches() error {
	if sw.Blinker == nil && sw.Reporter == nil {
		return errors.New("no sketch configured")
	}

	if sw.Blinker != nil {
		if sw.sleeper != nil {
			sw.Blinker.UseSleeper(sw.sleeper)
		}
		err := sw.Blinker.Init(sw.ioDrivers[strings.ToLower(sw.Blinker.DriverName)])
		if err != nil {
			return errors.Wrapf(err, "failed to init %s", sw.Blinker)
		}
	}

	if sw.Reporter != nil {
		if sw.sleeper != nil {
			sw.Reporter.UseSleeper(sw.sleeper)
		}
		err := sw.Reporter.Init(
			sw.analogDrivers[strings.ToLower(sw.Reporter.AnalogDriver)],
			sw.serialDrivers[strings.ToLower(sw.Reporter.SerialDriver)],
		)
		if err != nil {
			return errors.Wrapf(err, "failed to init %s", sw.Reporter)
		}
	}

	return nil
}

func (sw *SwSketch) run(ctx context.Context, name string, t sketch.Ticker) error {
	sw.getLogger().Info("starting loop", "sketch", name)

	err := sketch.Loop(ctx, t, func(err error) {
		sw.getLogger().Warn("tick failed, continuing", "sketch", name, "err", err)
	})
	if errors.Is(err, context.Canceled) {
		sw.getLogger().Info("loop stopped", "sketch", name)
		return nil
	}

	return errors.Wrapf(err, "%s stopped", name)
}

// RunBlinker blinks until ctx is cancelled or the output fails.
func (sw *SwSketch) RunBlinker(ctx context.Context) error {
	if sw.Blinker == nil {
		return errors.New("blinker not configured")
	}

	return sw.run(ctx, sw.Blinker.String(), sw.Blinker)
}

// RunReporter streams readings until ctx is cancelled or the serial link fails.
func (sw *SwSketch) RunReporter(ctx context.Context) error {
	if sw.Reporter == nil {
		return errors.New("reporter not configured")
	}

	return sw.run(ctx, sw.Reporter.String(), sw.Reporter)
}

func (sw *SwSketch) InitMqtt() (err error) {
	if len(sw.MqttBroker) == 0 {
		err = errors.New("mqtt broker not set")
		return
	}
	if sw.Reporter == nil {
		err = errors.New("mqtt mirror needs a reporter")
		return
	}

	mc, err := mqtt.NewMqttClient(sw.MqttBroker, sw.name())
	if err != nil {
		err = errors.Wrap(err, "failed to create mqtt client")
		return
	}

	err = mc.Connect()
	if err != nil {
		err = errors.Wrap(err, "failed to connect to mqtt broker")
		return
	}

	sw.mqttClient = mc
	sw.Reporter.AddMirror(&mqttMirror{publisher: mc, prefix: sw.name()})

	return
}

func (sw *SwSketch) InitInflux(ctx context.Context) error {
	if sw.Influx == nil {
		return errors.New("influx not configured")
	}
	if sw.Reporter == nil {
		return errors.New("influx mirror needs a reporter")
	}

	if len(sw.Influx.Device) == 0 {
		sw.Influx.Device = sw.name()
	}
	err := sw.Influx.Setup(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to setup influx sink")
	}

	sw.Reporter.AddMirror(&influxMirror{sink: sw.Influx})
	return nil
}

func (sw *SwSketch) Close() (err error) {
	closers := []interface {
		String() string
		Close() error
	}{}
	for _, driver := range sw.ioDrivers {
		closers = append(closers, driver)
	}
	for _, driver := range sw.analogDrivers {
		closers = append(closers, driver)
	}
	for _, driver := range sw.serialDrivers {
		closers = append(closers, driver)
	}
	if sw.Influx != nil {
		closers = append(closers, sw.Influx)
	}

	var failed []string
	for _, closer := range closers {
		closeErr := closer.Close()
		if closeErr != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", closer, closeErr))
		}
	}

	if sw.mqttClient != nil {
		closeErr := sw.mqttClient.Disconnect(context.Background())
		if closeErr != nil {
			failed = append(failed, fmt.Sprintf("mqtt: %v", closeErr))
		}
	}

	if len(failed) > 0 {
		err = errors.Errorf("failed to close: %s", strings.Join(failed, "; "))
	}
	return
}
