// Package ingest materializes MQTT telemetry messages into the record
// store.
package ingest

import (
	"context"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/thingmesh/telemetry-go/internal/metrics"
	"github.com/thingmesh/telemetry-go/internal/store"
)

const subscribeRetryInterval = 5 * time.Second

// Pipeline subscribes to a fixed set of topics and appends every
// received message to the record store. Ingestion is best-effort past
// the transport boundary: a failed insert drops that one message and
// never blocks delivery of the next.
type Pipeline struct {
	repo          store.Repo
	topics        []string
	qos           byte
	insertTimeout time.Duration
	retryInterval time.Duration
	logger        *zap.Logger
}

// New creates a Pipeline writing to repo.
func New(repo store.Repo, topics []string, qos byte, insertTimeout time.Duration, logger *zap.Logger) *Pipeline {
	if insertTimeout <= 0 {
		insertTimeout = 5 * time.Second
	}
	return &Pipeline{
		repo:          repo,
		topics:        topics,
		qos:           qos,
		insertTimeout: insertTimeout,
		retryInterval: subscribeRetryInterval,
		logger:        logger.With(zap.String("component", "ingest")),
	}
}

// OnConnect is the paho connect hook: it (re)subscribes to all
// configured topics in one batch after every connect or reconnect.
// On subscribe failure it retries with a fixed backoff for as long as
// the connection stays up.
//
// Wire it via broker.Options.OnConnect.
func (p *Pipeline) OnConnect(client mqtt.Client) {
	filters := make(map[string]byte, len(p.topics))
	for _, t := range p.topics {
		filters[t] = p.qos
	}

	for {
		token := client.SubscribeMultiple(filters, p.handleMessage)
		token.Wait()
		err := token.Error()
		if err == nil {
			p.logger.Info("subscribed", zap.Strings("topics", p.topics))
			return
		}
		p.logger.Error("subscribe failed, retrying", zap.Error(err),
			zap.Duration("backoff", p.retryInterval))

		time.Sleep(p.retryInterval)
		if !client.IsConnectionOpen() {
			// The reconnect will invoke OnConnect again.
			return
		}
	}
}

// handleMessage appends one transport message to the store. Errors are
// logged and counted; they are intentionally non-fatal so that one bad
// insert cannot stall the stream.
func (p *Pipeline) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	topic := msg.Topic()
	payload := string(msg.Payload())
	metrics.MessagesReceived.WithLabelValues(topic).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), p.insertTimeout)
	defer cancel()

	start := time.Now()
	id, err := p.repo.Insert(ctx, topic, payload, time.Time{})
	metrics.InsertDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InsertFailures.Inc()
		p.logger.Error("insert failed, message dropped",
			zap.String("topic", topic), zap.Error(err))
		return
	}
	p.logger.Debug("message stored",
		zap.Int64("id", id), zap.String("topic", topic))
}
