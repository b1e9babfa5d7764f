package mqtt

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"github.com/pkg/errors"
)

const connectionTimeoutSeconds = 5
const publishTimeoutSeconds = 4
const shutdownTimeoutSeconds = 5

type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MqttClient only publishes; nothing is ever subscribed.
type MqttClient struct {
	config         autopaho.ClientConfig
	connectTimeout time.Duration

	conn   *autopaho.ConnectionManager
	stop   context.CancelFunc
	done   <-chan struct{}
	logger *log.Logger
}

// ReadingTopic is the topic one analog channel is mirrored to, e.g. bench/analog/A0.
func ReadingTopic(prefix string, channel uint16) string {
	prefix = strings.Trim(prefix, "/")
	if len(prefix) == 0 {
		prefix = "swsketch"
	}
	return fmt.Sprintf("%s/analog/A%d", prefix, channel)
}

func (mc *MqttClient) Publish(topic string, payload []byte) (err error) {
	if mc.conn == nil {
		return errors.New("mqtt client not connected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeoutSeconds*time.Second)
	defer cancel()

	_, err = mc.conn.Publish(ctx, &paho.Publish{
		Topic:   topic,
		QoS:     0,
		Payload: payload,
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to publish to %s", topic)
	}
	return
}

func (mc *MqttClient) onConnUp(cm *autopaho.ConnectionManager, connAck *paho.Connack) {
	mc.logger.Info("Connected to MQTT broker")
}

func (mc *MqttClient) onConnError(err error) {
	mc.logger.Error("Received Mqtt connection error", "err", err)
}

func (mc *MqttClient) onSrvDisconnect(d *paho.Disconnect) {
	mc.logger.Info("Disconnected from MQTT broker")
}

// Connect waits for the broker. On failure the connection manager is
// shut down before returning, so no reconnect loop outlives the call.
func (mc *MqttClient) Connect() (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), mc.connectTimeout)
	defer cancel()

	connCtx, stop := context.WithCancel(context.Background())

	mc.logger.Debug("NewConnection")
	cm, err := autopaho.NewConnection(connCtx, mc.config)
	if err != nil {
		stop()
		return errors.Wrap(err, "failed to create mqtt connection")
	}
	mc.done = cm.Done()

	mc.logger.Debug("AwaitConnection")
	err = cm.AwaitConnection(ctx)
	mc.logger.Debug("AwaitConnection done", "err", err)
	if err != nil {
		stop()
		mc.awaitShutdown()
		return errors.Wrap(err, "mqtt broker not reachable")
	}

	mc.conn = cm
	mc.stop = stop
	return
}

func (mc *MqttClient) awaitShutdown() {
	select {
	case <-mc.done:
	case <-time.After(shutdownTimeoutSeconds * time.Second):
		mc.logger.Warn("mqtt connection manager did not stop in time")
	}
}

func (mc *MqttClient) Disconnect(ctx context.Context) error {
	if mc.conn == nil {
		return nil
	}

	err := mc.conn.Disconnect(ctx)
	mc.stop()
	mc.awaitShutdown()
	mc.conn = nil
	return err
}

func NewMqttClient(broker string, clientId string) (mc *MqttClient, err error) {
	addr, err := url.Parse(broker)
	if err != nil {
		return
	}
	if len(addr.Host) == 0 {
		err = errors.Errorf("mqtt broker url %q has no host", broker)
		return
	}

	mc = &MqttClient{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "MqttClient 🐰",
			Level:  log.GetLevel(),
		}),
	}

	mc.connectTimeout = connectionTimeoutSeconds * time.Second
	mc.config = autopaho.ClientConfig{
		ServerUrls:            []*url.URL{addr},
		KeepAlive:             20,
		SessionExpiryInterval: 60,
		OnConnectionUp:        mc.onConnUp,
		OnConnectError:        mc.onConnError,
		ClientConfig: paho.ClientConfig{
			ClientID:           clientId,
			OnClientError:      mc.onConnError,
			OnServerDisconnect: mc.onSrvDisconnect,
		},
	}

	return
}
