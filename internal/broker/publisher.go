package broker

import (
	"context"
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrUnavailable is returned when a publish is not acknowledged by the
// transport.
var ErrUnavailable = errors.New("transport unavailable")

// Publisher publishes command messages to the transport. A successful
// publish acknowledgment is necessary and sufficient; no device-side
// confirmation is solicited.
type Publisher interface {
	Publish(ctx context.Context, topic, payload string) error
}

// MQTTPublisher implements Publisher on the shared paho client.
type MQTTPublisher struct {
	client mqtt.Client
	qos    byte
}

// NewPublisher creates a Publisher over an established client.
func NewPublisher(client mqtt.Client, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, qos: qos}
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic, payload string) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

var _ Publisher = (*MQTTPublisher)(nil)
