// Package broker wraps the shared MQTT connection used by the
// ingestion pipeline and the command endpoints.
package broker

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Options configures the shared MQTT client.
type Options struct {
	BrokerURL string
	ClientID  string

	// OnConnect runs on every successful (re)connect; the ingestion
	// pipeline uses it to re-establish its subscriptions.
	OnConnect mqtt.OnConnectHandler
}

// Connect establishes the long-lived broker connection. The client
// reconnects automatically; individual publish or subscribe failures
// never tear it down.
func Connect(opts Options, logger *zap.Logger) (mqtt.Client, error) {
	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second).
		SetMaxReconnectInterval(30 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("broker connection lost", zap.Error(err))
		})
	if opts.OnConnect != nil {
		clientOpts.SetOnConnectHandler(opts.OnConnect)
	}

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", opts.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", opts.BrokerURL, err)
	}
	logger.Info("connected to broker", zap.String("url", opts.BrokerURL))
	return client, nil
}
