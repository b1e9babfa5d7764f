package drivers

import (
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

func TestPrepareInfluxPoint(t *testing.T) {
	at := time.Unix(1700000000, 0)

	t.Run("defaults", func(t *testing.T) {
		is := InfluxSink{}
		got := strings.TrimSpace(write.PointToLineProtocol(is.preparePoint(0, 512, at), time.Second))
		want := "analog,channel=A0 value=512i 1700000000"

		if got != want {
			t.Errorf("prepared influx point mismatch, got:\n%s\nwant:\n%s\n", got, want)
		}
	})

	t.Run("device and measurement", func(t *testing.T) {
		is := InfluxSink{Measurement: "pot", Device: "bench"}
		got := strings.TrimSpace(write.PointToLineProtocol(is.preparePoint(3, 0, at), time.Second))
		want := "pot,channel=A3,device=bench value=0i 1700000000"

		if got != want {
			t.Errorf("prepared influx point mismatch, got:\n%s\nwant:\n%s\n", got, want)
		}
	})
}

func TestInfluxSinkNotReady(t *testing.T) {
	is := InfluxSink{}
	if err := is.WriteReading(0, 1, time.Now()); err == nil {
		t.Error("got nil error writing to sink that is not set up")
	}
	if err := is.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
}
