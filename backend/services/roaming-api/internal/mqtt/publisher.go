package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"chargenet/backend/services/roaming-api/internal/domain"
)

const publishTimeout = 5 * time.Second

var errNotConnected = errors.New("mqtt client is not connected")

// PublisherConfig holds the broker connection and topic settings.
type PublisherConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	Retained    bool
	TopicPrefix string
}

// client is the subset of paho.Client the publisher uses.
type client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher forwards roaming network events to an MQTT broker under
// <prefix>/<roaming network>/<event type>.
type Publisher struct {
	client client
	config PublisherConfig
	logger *zap.Logger
}

// NewPublisher creates a publisher; Connect must be called before events flow.
func NewPublisher(config PublisherConfig, logger *zap.Logger) *Publisher {
	if config.TopicPrefix == "" {
		config.TopicPrefix = "roaming"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(config.BrokerURL)
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(30 * time.Second)
	opts.SetMaxReconnectInterval(5 * time.Minute)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(paho.Client) {
		logger.Info("mqtt connected", zap.String("broker", config.BrokerURL))
	})

	return newPublisher(paho.NewClient(opts), config, logger)
}

func newPublisher(c client, config PublisherConfig, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: c, config: config, logger: logger}
}

// Connect establishes the broker connection.
func (p *Publisher) Connect() error {
	c, ok := p.client.(paho.Client)
	if !ok {
		return nil
	}
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt: connect: %w", token.Error())
	}
	return nil
}

// Disconnect closes the broker connection.
func (p *Publisher) Disconnect() {
	if c, ok := p.client.(paho.Client); ok && c.IsConnected() {
		c.Disconnect(250)
	}
}

// Topic returns the topic of event.
func (p *Publisher) Topic(event domain.Event) string {
	return fmt.Sprintf("%s/%s/%s", p.config.TopicPrefix, event.RoamingNetworkID, event.Type)
}

// Publish implements domain.EventSink. Delivery is asynchronous.
func (p *Publisher) Publish(_ context.Context, event domain.Event) {
	go func() {
		if err := p.publishSync(event); err != nil {
			p.logger.Warn("failed to publish event",
				zap.String("topic", p.Topic(event)),
				zap.Error(err))
		}
	}()
}

func (p *Publisher) publishSync(event domain.Event) error {
	if !p.client.IsConnected() {
		return errNotConnected
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("mqtt: encode event: %w", err)
	}
	token := p.client.Publish(p.Topic(event), p.config.QoS, p.config.Retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("mqtt: timeout waiting for publish")
	}
	return token.Error()
}
