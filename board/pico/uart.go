//go:build tinygo

package pico

import (
	"errors"
	"machine"
)

// Uart is UART0 on GP0 (TX) and GP1 (RX).
type Uart struct {
	uart *machine.UART
	baud int
	open bool
}

func (u *Uart) String() string {
	return serialDriverName
}

func (u *Uart) Begin(baud int) error {
	if baud <= 0 {
		return errors.New("invalid baud rate")
	}

	err := u.uart.Configure(machine.UARTConfig{BaudRate: uint32(baud)})
	if err != nil {
		return err
	}
	u.baud = baud
	u.open = true
	return nil
}

func (u *Uart) IsOpen() bool {
	return u.open
}

func (u *Uart) Baud() int {
	return u.baud
}

func (u *Uart) Write(p []byte) (int, error) {
	if !u.open {
		return 0, errors.New("uart not open")
	}
	return u.uart.Write(p)
}
