package drivers

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// rpioCalls are the go-rpio functions touching the shared register map.
type rpioCalls struct {
	open          func() error
	close         func() error
	spiBegin      func(rpio.SpiDev) error
	spiEnd        func(rpio.SpiDev)
	spiSpeed      func(int)
	spiChipSelect func(uint8)
	spiExchange   func([]byte)
}

var rpioHw = rpioCalls{
	open:          rpio.Open,
	close:         rpio.Close,
	spiBegin:      rpio.SpiBegin,
	spiEnd:        rpio.SpiEnd,
	spiSpeed:      rpio.SpiSpeed,
	spiChipSelect: rpio.SpiChipSelect,
	spiExchange:   rpio.SpiExchange,
}

// go-rpio maps /dev/gpiomem once per process; every driver using it goes
// through acquireRpio/releaseRpio so the map is opened by the first user and
// unmapped by the last.
var (
	rpioLock  sync.Mutex
	rpioUsers int
)

func acquireRpio() error {
	rpioLock.Lock()
	defer rpioLock.Unlock()

	if rpioUsers == 0 {
		err := rpioHw.open()
		if err != nil {
			return errors.Wrap(err, "failed to open rpio")
		}
	}
	rpioUsers++
	return nil
}

func releaseRpio() error {
	rpioLock.Lock()
	defer rpioLock.Unlock()

	if rpioUsers == 0 {
		return nil
	}
	rpioUsers--
	if rpioUsers > 0 {
		return nil
	}
	return rpioHw.close()
}
