package swsketch

import (
	"strconv"
	"time"

	"github.com/hubertat/swsketch/mqtt"
	"github.com/hubertat/swsketch/sketch"
)

type mqttMirror struct {
	publisher mqtt.Publisher
	prefix    string
}

// PublishReading sends the bare decimal value, the serial line without '\n'.
func (mm *mqttMirror) PublishReading(r sketch.Reading) error {
	return mm.publisher.Publish(mqtt.ReadingTopic(mm.prefix, r.Channel), []byte(strconv.Itoa(r.Value)))
}

type readingWriter interface {
	WriteReading(channel uint16, value int, at time.Time) error
}

type influxMirror struct {
	sink readingWriter
}

func (im *influxMirror) PublishReading(r sketch.Reading) error {
	return im.sink.WriteReading(r.Channel, r.Value, r.At)
}
