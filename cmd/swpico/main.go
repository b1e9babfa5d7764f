//go:build tinygo

package main

import (
	"context"
	"fmt"

	"github.com/hubertat/swsketch/board/pico"
	"github.com/hubertat/swsketch/sketch"
)

// Sketch selects the firmware behaviour, set with
// -ldflags "-X main.Sketch=report".
var Sketch = "blink"

func run() error {
	ctx := context.Background()

	switch Sketch {
	case "blink":
		blinker := &sketch.Blinker{DriverName: "pico"}
		board, err := pico.New([]uint16{blinker.Pin()}, nil)
		if err != nil {
			return err
		}
		err = blinker.Init(board.Outputs())
		if err != nil {
			return err
		}
		return sketch.Loop(ctx, blinker, nil)

	case "report":
		reporter := &sketch.Reporter{AnalogDriver: "pico_adc", SerialDriver: "uart"}

		board, err := pico.New(nil, []uint16{reporter.Channel})
		if err != nil {
			return err
		}
		err = reporter.Init(board.Analog(), board.Serial())
		if err != nil {
			return err
		}
		return sketch.Loop(ctx, reporter, nil)
	}

	return fmt.Errorf("unknown sketch %s", Sketch)
}

func main() {
	err := run()
	if err != nil {
		fmt.Println("sketch stopped: ", err.Error())
		panic(err)
	}
}
