package drivers

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/hubertat/swsketch/hal"
)

const mcp3008DriverName = "mcp3008"
const mcp3008Channels = 8
const mcp3008DefaultSpeedHz = 1350000

// Mcp3008 reads the 10-bit MCP3008 converter on the Pi's SPI0 bus, so
// readings span 0..1023 like an Arduino analogRead.
type Mcp3008 struct {
	ChipSelect uint8
	SpeedHz    int

	channels []*Mcp3008Channel
	exchange func([]byte)
	ownsBus  bool
	lock     sync.Mutex
	isReady  bool
}

type Mcp3008Channel struct {
	channel uint8
	driver  *Mcp3008
}

func (ch *Mcp3008Channel) Read() (int, error) {
	return ch.driver.sample(ch.channel)
}

// mcp3008Request builds the single-ended conversion frame for channel ch.
func mcp3008Request(ch uint8) []byte {
	return []byte{0x01, (0x08 | ch) << 4, 0x00}
}

// mcp3008Value extracts the 10-bit result from an exchanged frame.
func mcp3008Value(frame []byte) (int, error) {
	if len(frame) != 3 {
		return 0, errors.Errorf("mcp3008 frame has %d bytes, want 3", len(frame))
	}
	return int(frame[1]&0x03)<<8 | int(frame[2]), nil
}

func (mcp *Mcp3008) sample(ch uint8) (int, error) {
	mcp.lock.Lock()
	defer mcp.lock.Unlock()

	if !mcp.isReady {
		return 0, errors.New("mcp3008 driver not ready")
	}

	frame := mcp3008Request(ch)
	mcp.exchange(frame)

	return mcp3008Value(frame)
}

func (mcp *Mcp3008) Setup(ctx context.Context, channels []uint16) error {
	for _, ch := range channels {
		if ch >= mcp3008Channels {
			return errors.Errorf("channel %d out of range (mcp3008 has %d channels)", ch, mcp3008Channels)
		}
	}

	if mcp.exchange == nil {
		err := acquireRpio()
		if err != nil {
			return errors.Wrap(err, "mcp3008 setup failed")
		}
		err = rpioHw.spiBegin(rpio.Spi0)
		if err != nil {
			releaseRpio()
			return errors.Wrap(err, "failed to begin SPI0 for mcp3008")
		}

		speed := mcp.SpeedHz
		if speed == 0 {
			speed = mcp3008DefaultSpeedHz
		}
		rpioHw.spiSpeed(speed)
		rpioHw.spiChipSelect(mcp.ChipSelect)
		mcp.exchange = rpioHw.spiExchange
		mcp.ownsBus = true
	}

	for _, ch := range channels {
		mcp.channels = append(mcp.channels, &Mcp3008Channel{channel: uint8(ch), driver: mcp})
	}

	mcp.isReady = true
	return nil
}

func (mcp *Mcp3008) String() string {
	return mcp3008DriverName
}

func (mcp *Mcp3008) IsReady() bool {
	return mcp.isReady
}

func (mcp *Mcp3008) GetAnalog(channel uint16) (hal.AnalogInput, error) {
	for _, ch := range mcp.channels {
		if uint16(ch.channel) == channel {
			return ch, nil
		}
	}
	return nil, fmt.Errorf("mcp3008 channel %d not set up", channel)
}

func (mcp *Mcp3008) Channels() (channels []uint16) {
	for _, ch := range mcp.channels {
		channels = append(channels, uint16(ch.channel))
	}
	return
}

func (mcp *Mcp3008) Close() error {
	mcp.lock.Lock()
	defer mcp.lock.Unlock()

	if !mcp.isReady {
		return nil
	}
	mcp.isReady = false
	if !mcp.ownsBus {
		return nil
	}
	rpioHw.spiEnd(rpio.Spi0)
	mcp.exchange = nil
	mcp.ownsBus = false
	return releaseRpio()
}
