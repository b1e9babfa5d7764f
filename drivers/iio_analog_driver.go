package drivers

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hubertat/swsketch/hal"
)

const iioSystemPath string = "/sys/bus/iio/devices"
const iioAnalogDriverName string = "iio"

// IioAnalog reads raw converter values exposed by a Linux IIO device, e.g.
// /sys/bus/iio/devices/iio:device0/in_voltage0_raw.
type IioAnalog struct {
	Device       uint8
	CheckBounds  bool
	BoundMinimum int
	BoundMaximum int

	// SystemPath overrides /sys/bus/iio/devices.
	SystemPath string

	channels []*IioChannel
	ready    bool
}

type IioChannel struct {
	channel  uint16
	filePath string
	driver   *IioAnalog
}

func (ic *IioChannel) Read() (int, error) {
	return ic.driver.readRaw(ic)
}

func (iio *IioAnalog) devicePath() string {
	root := iio.SystemPath
	if len(root) == 0 {
		root = iioSystemPath
	}
	return path.Join(root, fmt.Sprintf("iio:device%d", iio.Device))
}

func (iio *IioAnalog) channelPath(channel uint16) string {
	return path.Join(iio.devicePath(), fmt.Sprintf("in_voltage%d_raw", channel))
}

func (iio *IioAnalog) Setup(ctx context.Context, channels []uint16) (err error) {
	_, err = os.ReadDir(iio.devicePath())
	if err != nil {
		return errors.Wrapf(err, "failed to init iio analog driver: error reading dir (%s)", iio.devicePath())
	}

	for _, ch := range channels {
		filePath := iio.channelPath(ch)
		_, err = os.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to init iio analog driver, cannot read file %s", filePath)
		}
		iio.channels = append(iio.channels, &IioChannel{channel: ch, filePath: filePath, driver: iio})
	}

	iio.ready = true
	return
}

func (iio *IioAnalog) checkBounds(raw int) bool {
	if raw < iio.BoundMinimum || raw > iio.BoundMaximum {
		return false
	}
	return true
}

func (iio *IioAnalog) readRaw(ic *IioChannel) (int, error) {
	rawBytes, err := os.ReadFile(ic.filePath)
	if err != nil {
		return 0, errors.Wrapf(err, "failed reading file for channel %d: %s", ic.channel, ic.filePath)
	}
	rawString := strings.TrimSpace(string(rawBytes))
	raw, err := strconv.ParseInt(rawString, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "failed converting raw string: %s to int value, for channel %d", rawString, ic.channel)
	}
	if iio.CheckBounds && !iio.checkBounds(int(raw)) {
		return 0, errors.Errorf("iio bound check enabled and failed, value: %d for channel %d", raw, ic.channel)
	}

	return int(raw), nil
}

func (iio *IioAnalog) Close() error {
	iio.ready = false
	return nil
}

func (iio *IioAnalog) IsReady() bool {
	return iio.ready
}

func (iio *IioAnalog) String() string {
	return iioAnalogDriverName
}

func (iio *IioAnalog) GetAnalog(channel uint16) (hal.AnalogInput, error) {
	for _, ch := range iio.channels {
		if ch.channel == channel {
			return ch, nil
		}
	}
	return nil, errors.Errorf("channel %d was not found in driver %s", channel, iio)
}

func (iio *IioAnalog) Channels() (channels []uint16) {
	for _, ch := range iio.channels {
		channels = append(channels, ch.channel)
	}
	return
}
