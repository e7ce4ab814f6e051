package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ecobin-telemetry/internal/config"
	pkgmqtt "ecobin-telemetry/pkg/mqtt"
)

// MQTTClient feeds bin events published on `bins/<code>/events` into the
// ingest service. The bin code is taken from the topic, mirroring the
// bin_code query parameter on the HTTP route. There is no reply channel,
// so invalid payloads are logged and dropped.
type MQTTClient struct {
	cfg     *config.MQTTConfig
	client  *pkgmqtt.Client
	service *Service
	log     *zap.Logger

	mu      sync.Mutex
	started bool
	topic   string
}

func NewMQTTClient(cfg *config.MQTTConfig, service *Service, log *zap.Logger) (*MQTTClient, error) {
	if cfg == nil || cfg.Broker == "" {
		return nil, errors.New("mqtt broker is not configured")
	}
	if service == nil {
		return nil, errors.New("ingest service is required")
	}

	client := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:         cfg.Broker,
		ClientID:       cfg.ClientID,
		Username:       cfg.Username,
		Password:       cfg.Password,
		KeepAlive:      cfg.KeepAlive,
		ConnectTimeout: cfg.ConnectTimeout,
	}, log)

	return &MQTTClient{
		cfg:     cfg,
		client:  client,
		service: service,
		log:     log,
	}, nil
}

// Start connects to the broker and subscribes to the event topic.
func (c *MQTTClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}

	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	topic := c.cfg.EventTopic
	if topic == "" {
		topic = "bins/+/events"
	}

	if err := c.client.Subscribe(topic, byte(c.cfg.QoS), c.handleEventMessage); err != nil {
		c.client.Disconnect()
		return fmt.Errorf("subscribe failed for topic %s: %w", topic, err)
	}

	c.topic = topic
	c.started = true
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (c *MQTTClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return
	}

	if err := c.client.Unsubscribe(c.topic); err != nil {
		c.log.Warn("failed to unsubscribe from mqtt topic", zap.Error(err))
	}

	c.client.Disconnect()
	c.started = false
}

func (c *MQTTClient) handleEventMessage(topic string, payload []byte) {
	code := binCodeFromTopic(topic)
	if code == "" {
		c.log.Warn("discarding mqtt event without bin code in topic",
			zap.String("topic", topic),
		)
		return
	}

	msg, err := ParseBinEvent(payload)
	if err != nil {
		c.log.Warn("invalid mqtt event payload",
			zap.String("bin_code", code),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := c.service.Ingest(ctx, code, msg)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			c.log.Warn("rejected mqtt event",
				zap.String("bin_code", code),
				zap.Int("violations", len(vErr.Details)),
			)
			return
		}
		c.log.Error("failed to process mqtt event",
			zap.String("bin_code", code),
			zap.Error(err),
		)
		return
	}

	c.log.Info("ingested mqtt event",
		zap.String("bin_code", code),
		zap.String("event_id", result.EventID.String()),
	)
}

// binCodeFromTopic extracts the code from `bins/<code>/events`.
func binCodeFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "bins" || parts[2] != "events" {
		return ""
	}
	return parts[1]
}
