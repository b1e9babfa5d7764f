package drivers

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeIioRaw(t testing.TB, root string, channel int, content string) {
	t.Helper()

	dir := filepath.Join(root, "iio:device0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	name := filepath.Join(dir, "in_voltage"+strconv.Itoa(channel)+"_raw")
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIioAnalogRead(t *testing.T) {
	root := t.TempDir()
	writeIioRaw(t, root, 0, "512\n")
	writeIioRaw(t, root, 1, "  1023\t\n")

	iio := &IioAnalog{SystemPath: root}
	err := iio.Setup(context.Background(), []uint16{0, 1})
	if err != nil {
		t.Fatalf("Setup returned err: %v", err)
	}
	assertBools(t, iio.IsReady(), true)
	assertUint16Slices(t, iio.Channels(), []uint16{0, 1})

	a0, _ := iio.GetAnalog(0)
	got, err := a0.Read()
	if err != nil || got != 512 {
		t.Errorf("got %d, %v want 512", got, err)
	}

	a1, _ := iio.GetAnalog(1)
	got, _ = a1.Read()
	if got != 1023 {
		t.Errorf("got %d want 1023", got)
	}

	writeIioRaw(t, root, 0, "0\n")
	got, _ = a0.Read()
	if got != 0 {
		t.Errorf("got %d want 0 after file update", got)
	}
}

func TestIioAnalogSetupErrors(t *testing.T) {
	t.Run("missing device", func(t *testing.T) {
		iio := &IioAnalog{SystemPath: t.TempDir(), Device: 3}
		if iio.Setup(context.Background(), []uint16{0}) == nil {
			t.Error("got nil error for missing device")
		}
	})

	t.Run("missing channel", func(t *testing.T) {
		root := t.TempDir()
		writeIioRaw(t, root, 0, "1\n")
		iio := &IioAnalog{SystemPath: root}
		if iio.Setup(context.Background(), []uint16{0, 2}) == nil {
			t.Error("got nil error for missing channel file")
		}
	})
}

func TestIioAnalogReadErrors(t *testing.T) {
	root := t.TempDir()
	writeIioRaw(t, root, 0, "garbage\n")
	writeIioRaw(t, root, 1, "4000\n")

	iio := &IioAnalog{SystemPath: root, CheckBounds: true, BoundMinimum: 0, BoundMaximum: 1023}
	if err := iio.Setup(context.Background(), []uint16{0, 1}); err != nil {
		t.Fatalf("Setup returned err: %v", err)
	}

	a0, _ := iio.GetAnalog(0)
	if _, err := a0.Read(); err == nil {
		t.Error("got nil error for unparsable value")
	}

	a1, _ := iio.GetAnalog(1)
	if _, err := a1.Read(); err == nil {
		t.Error("got nil error for out of bound value")
	}
}
