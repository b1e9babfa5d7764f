package swsketch

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertBenchConfig(t testing.TB, sw *SwSketch) {
	t.Helper()

	if sw.Name != "bench" {
		t.Errorf("got name %q want bench", sw.Name)
	}
	if sw.Blinker == nil || sw.Blinker.DriverName != "gpio" || sw.Blinker.Pin() != 13 || sw.Blinker.DelayMs != 500 {
		t.Errorf("unexpected blinker %+v", sw.Blinker)
	}
	if sw.Reporter == nil || sw.Reporter.AnalogDriver != "mcp3008" || sw.Reporter.Channel != 2 || sw.Reporter.SerialDriver != "serial" {
		t.Errorf("unexpected reporter %+v", sw.Reporter)
	}
	if sw.Gpio == nil || !sw.Gpio.InvertOutputs {
		t.Errorf("unexpected gpio %+v", sw.Gpio)
	}
	if sw.Mcp3008 == nil || sw.Mcp3008.ChipSelect != 1 {
		t.Errorf("unexpected mcp3008 %+v", sw.Mcp3008)
	}
	if sw.Serial == nil || sw.Serial.PortName != "/dev/ttyUSB0" {
		t.Errorf("unexpected serial %+v", sw.Serial)
	}
	if sw.Mcp23017 != nil || sw.FakeDriver != nil {
		t.Error("drivers not present in config should stay nil")
	}
}

func TestLoadConfigJson(t *testing.T) {
	path := writeConfig(t, "config.json", `{
	"Name": "bench",
	"Blinker": {"DriverName": "gpio", "OutPin": 13, "DelayMs": 500},
	"Reporter": {"AnalogDriver": "mcp3008", "Channel": 2, "SerialDriver": "serial"},
	"Gpio": {"InvertOutputs": true},
	"Mcp3008": {"ChipSelect": 1},
	"Serial": {"PortName": "/dev/ttyUSB0"}
}`)

	sw, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned err: %v", err)
	}
	assertBenchConfig(t, sw)
}

func TestLoadConfigToml(t *testing.T) {
	path := writeConfig(t, "config.toml", `
Name = "bench"

[Blinker]
DriverName = "gpio"
OutPin = 13
DelayMs = 500

[Reporter]
AnalogDriver = "mcp3008"
Channel = 2
SerialDriver = "serial"

[Gpio]
InvertOutputs = true

[Mcp3008]
ChipSelect = 1

[Serial]
PortName = "/dev/ttyUSB0"
`)

	sw, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned err: %v", err)
	}
	assertBenchConfig(t, sw)
}

func TestLoadConfigYaml(t *testing.T) {
	path := writeConfig(t, "config.yml", `
name: bench
blinker:
  drivername: gpio
  outpin: 13
  delayms: 500
reporter:
  analogdriver: mcp3008
  channel: 2
  serialdriver: serial
gpio:
  invertoutputs: true
mcp3008:
  chipselect: 1
serial:
  portname: /dev/ttyUSB0
`)

	sw, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned err: %v", err)
	}
	assertBenchConfig(t, sw)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("got nil error for missing file")
	}

	path := writeConfig(t, "broken.json", `{"Name": `)
	_, err = LoadConfig(path)
	if err == nil {
		t.Error("got nil error for broken json")
	}
}

func TestLoadConfigPinZero(t *testing.T) {
	path := writeConfig(t, "config.json", `{"Blinker": {"DriverName": "mcpio", "OutPin": 0}}`)
	sw, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned err: %v", err)
	}
	if sw.Blinker.OutPin == nil || sw.Blinker.Pin() != 0 {
		t.Errorf("got pin %d want 0", sw.Blinker.Pin())
	}

	path = writeConfig(t, "default.json", `{"Blinker": {"DriverName": "mcpio"}}`)
	sw, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned err: %v", err)
	}
	if sw.Blinker.OutPin != nil || sw.Blinker.Pin() != 11 {
		t.Errorf("got pin %d want default 11", sw.Blinker.Pin())
	}
}
