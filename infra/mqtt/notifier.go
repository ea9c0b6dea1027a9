package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/fleetops/core/logger"
	"github.com/kilianp07/fleetops/core/notify"
)

// Notifier publishes driver notifications on <prefix>/<driver_id>/notifications.
type Notifier struct {
	cli        pahoClient
	prefix     string
	qos        byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewNotifier connects to the broker.
func NewNotifier(cfg Config, log logger.Logger) (*Notifier, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) { log.Warnf("reconnecting to MQTT broker") }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Notifier{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// Topic returns the topic notifications for driverID are published on.
func (n *Notifier) Topic(driverID string) string {
	return fmt.Sprintf("%s/%s/notifications", n.prefix, driverID)
}

// Notify publishes the notification, retrying with exponential backoff.
func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) error {
	if msg.DriverID == "" {
		return fmt.Errorf("notification without driver")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := n.Topic(msg.DriverID)
	var publishErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		token := n.cli.Publish(topic, n.qos, false, payload)
		token.Wait()
		if publishErr = token.Error(); publishErr == nil {
			n.log.Infof("sent notification %s to %s", msg.ID, topic)
			return nil
		}
		n.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == n.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.backoff * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("publish notification %s: %w", msg.ID, publishErr)
}

// Disconnect gracefully closes the MQTT connection.
func (n *Notifier) Disconnect() {
	if n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
}
