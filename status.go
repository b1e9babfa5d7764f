package swsketch

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	statusTitle = color.New(color.FgHiWhite, color.Bold)
	statusKey   = color.New(color.FgHiCyan)
	statusValue = color.New(color.FgHiYellow)
	statusMuted = color.New(color.FgHiBlack)
)

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func printPins(writer io.Writer, label string, pins []uint16, format string) {
	statusKey.Fprintf(writer, "| %s: ", label)
	if len(pins) == 0 {
		statusMuted.Fprint(writer, "none")
	}
	for ix, pin := range pins {
		if ix > 0 {
			fmt.Fprint(writer, ", ")
		}
		statusValue.Fprintf(writer, format, pin)
	}
	fmt.Fprintln(writer)
}

func (sw *SwSketch) PrintIoStatus(writer io.Writer) {
	fmt.Fprintln(writer)
	statusTitle.Fprintln(writer, "=== active drivers ===")

	for _, name := range sortedKeys(sw.ioDrivers) {
		fmt.Fprintln(writer, "________")
		statusKey.Fprint(writer, "| io driver: ")
		statusValue.Fprintln(writer, name)
		printPins(writer, "out pins", sw.ioDrivers[name].GetAllIo(), "%d")
		fmt.Fprintln(writer, "--------")
	}

	for _, name := range sortedKeys(sw.analogDrivers) {
		fmt.Fprintln(writer, "________")
		statusKey.Fprint(writer, "| analog driver: ")
		statusValue.Fprintln(writer, name)
		printPins(writer, "channels", sw.analogDrivers[name].Channels(), "A%d")
		fmt.Fprintln(writer, "--------")
	}

	for _, name := range sortedKeys(sw.serialDrivers) {
		serial := sw.serialDrivers[name]
		fmt.Fprintln(writer, "________")
		statusKey.Fprint(writer, "| serial driver: ")
		statusValue.Fprintln(writer, name)
		statusKey.Fprint(writer, "| baud: ")
		if serial.IsOpen() {
			statusValue.Fprintln(writer, serial.Baud())
		} else {
			statusMuted.Fprintln(writer, "closed")
		}
		fmt.Fprintln(writer, "--------")
	}

	fmt.Fprintln(writer, "-----------------------------")
	fmt.Fprintln(writer)
}
