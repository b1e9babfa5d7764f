package drivers

import (
	"bytes"
	"io"
	"sync"

	"github.com/pkg/errors"
)

const mockSerialDriverName = "mock_serial"

// MockSerial collects everything written to it. With Echo set, writes are
// copied there too, which is how cmd/mock shows the stream on stdout.
type MockSerial struct {
	Echo io.Writer

	lock   sync.Mutex
	buffer bytes.Buffer
	baud   int
	open   bool
	writes int
	err    error
}

func (ms *MockSerial) String() string {
	return mockSerialDriverName
}

func (ms *MockSerial) Begin(baud int) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	if baud <= 0 {
		return errors.Errorf("invalid baud rate %d", baud)
	}
	ms.baud = baud
	ms.open = true
	return nil
}

func (ms *MockSerial) IsOpen() bool {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	return ms.open
}

func (ms *MockSerial) Baud() int {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	return ms.baud
}

func (ms *MockSerial) Write(p []byte) (int, error) {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.writes++
	if !ms.open {
		return 0, errors.New("mock serial not open")
	}
	if ms.err != nil {
		return 0, ms.err
	}
	if ms.Echo != nil {
		ms.Echo.Write(p)
	}
	return ms.buffer.Write(p)
}

// SetError makes every following Write fail, nil clears it.
func (ms *MockSerial) SetError(err error) {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.err = err
}

// Written returns everything written so far.
func (ms *MockSerial) Written() string {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	return ms.buffer.String()
}

func (ms *MockSerial) Writes() int {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	return ms.writes
}

func (ms *MockSerial) Close() error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.open = false
	return nil
}
