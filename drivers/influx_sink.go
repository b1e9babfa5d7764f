package drivers

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/pkg/errors"
)

const influxSinkName string = "influx"
const defaultInfluxMeasurement string = "analog"
const influxWriteTimeout = 2 * time.Second

// InfluxSink stores analog readings as points, one per sample.
type InfluxSink struct {
	Host         string
	Organization string
	Bucket       string
	Measurement  string
	Token        string
	Device       string

	client   influxdb2.Client
	writeApi api.WriteAPIBlocking
	ready    bool
}

func (is *InfluxSink) Setup(ctx context.Context) error {
	if len(is.Host) == 0 {
		return errors.New("influx host not set")
	}

	is.client = influxdb2.NewClient(is.Host, is.Token)
	_, err := is.client.Health(ctx)
	if err != nil {
		is.client.Close()
		return errors.Wrapf(err, "failed to init InfluxSink, health check of %s failed", is.Host)
	}
	is.writeApi = is.client.WriteAPIBlocking(is.Organization, is.Bucket)

	is.ready = true
	return nil
}

func (is *InfluxSink) String() string {
	return influxSinkName
}

func (is *InfluxSink) IsReady() bool {
	return is.ready
}

func (is *InfluxSink) measurement() string {
	if len(is.Measurement) > 0 {
		return is.Measurement
	}
	return defaultInfluxMeasurement
}

func (is *InfluxSink) preparePoint(channel uint16, value int, at time.Time) *write.Point {
	tags := map[string]string{
		"channel": fmt.Sprintf("A%d", channel),
	}
	if len(is.Device) > 0 {
		tags["device"] = is.Device
	}

	return influxdb2.NewPoint(is.measurement(), tags, map[string]interface{}{"value": value}, at)
}

func (is *InfluxSink) WriteReading(channel uint16, value int, at time.Time) error {
	if !is.ready {
		return errors.New("InfluxSink not ready")
	}

	ctx, cancel := context.WithTimeout(context.Background(), influxWriteTimeout)
	defer cancel()

	err := is.writeApi.WritePoint(ctx, is.preparePoint(channel, value, at))
	if err != nil {
		return errors.Wrapf(err, "failed to write reading to bucket %s", is.Bucket)
	}
	return nil
}

func (is *InfluxSink) Close() error {
	if is.client != nil {
		is.client.Close()
	}
	is.ready = false
	return nil
}
