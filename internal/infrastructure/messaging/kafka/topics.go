package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// Default topic names.
const (
	TopicMomentRequested = "hmoment.moment.requested"
	TopicMomentCompleted = "hmoment.moment.completed"
	TopicDeadLetter      = "hmoment.dead_letter"
)

// Event types carried in EventEnvelope.EventType.
const (
	EventMomentRequested = "moment.requested"
	EventMomentCompleted = "moment.completed"
)

const schemaVersion = "v1"

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEventEnvelope marshals payload into a new envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "event has no payload").WithDetail(e.EventID)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode payload")
	}
	return nil
}

// ToMessage wraps the envelope for the given topic, keyed by key.
func (e *EventEnvelope) ToMessage(topic, key string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return &ProducerMessage{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// MessageToEventEnvelope parses a consumed message.
func MessageToEventEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Event publisher
// ─────────────────────────────────────────────────────────────────────────────

// Publisher is the write side of a Producer.
type Publisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// EventPublisher submits compute jobs and announces completed runs.
type EventPublisher struct {
	pub          Publisher
	source       string
	requestTopic string
	eventTopic   string
}

// NewEventPublisher creates an EventPublisher. Empty topics take the
// defaults.
func NewEventPublisher(pub Publisher, source, requestTopic, eventTopic string) *EventPublisher {
	if requestTopic == "" {
		requestTopic = TopicMomentRequested
	}
	if eventTopic == "" {
		eventTopic = TopicMomentCompleted
	}
	return &EventPublisher{pub: pub, source: source, requestTopic: requestTopic, eventTopic: eventTopic}
}

// RequestTopic returns the job topic.
func (p *EventPublisher) RequestTopic() string { return p.requestTopic }

// SubmitJob queues job on the request topic, keyed by job id.
func (p *EventPublisher) SubmitJob(ctx context.Context, job *htypes.ComputeJob) error {
	return p.publish(ctx, p.requestTopic, EventMomentRequested, job.JobID, job)
}

// PublishRunCompleted announces ev on the event topic, keyed by run id.
func (p *EventPublisher) PublishRunCompleted(ctx context.Context, ev *htypes.RunCompleted) error {
	return p.publish(ctx, p.eventTopic, EventMomentCompleted, ev.RunID, ev)
}

func (p *EventPublisher) publish(ctx context.Context, topic, eventType, key string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, p.source, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(topic, key)
	if err != nil {
		return err
	}
	return p.pub.Publish(ctx, msg)
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic management
// ─────────────────────────────────────────────────────────────────────────────

// TopicConfig describes a topic to create.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates topics on startup.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first broker. Topic creation must reach the
// controller, so the connection is redirected there.
func NewTopicManager(ctx context.Context, brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to dial kafka")
	}
	controller, err := conn.Controller()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to find kafka controller")
	}
	_ = conn.Close()

	addr := controller.Host + ":" + strconv.Itoa(controller.Port)
	ctrl, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to dial kafka controller")
	}
	return &TopicManager{conn: ctrl, logger: logger}, nil
}

// TopicExists reports whether name has partitions.
func (m *TopicManager) TopicExists(name string) bool {
	partitions, err := m.conn.ReadPartitions(name)
	return err == nil && len(partitions) > 0
}

// EnsureTopics creates every missing topic.
func (m *TopicManager) EnsureTopics(topics []TopicConfig) error {
	for _, t := range topics {
		if t.Name == "" {
			return errors.New(errors.ErrCodeValidation, "topic name required")
		}
		if t.NumPartitions <= 0 || t.ReplicationFactor <= 0 {
			return errors.New(errors.ErrCodeValidation, "partitions and replication factor must be > 0").WithDetail(t.Name)
		}
		if m.TopicExists(t.Name) {
			continue
		}
		kCfg := kafka.TopicConfig{
			Topic:             t.Name,
			NumPartitions:     t.NumPartitions,
			ReplicationFactor: t.ReplicationFactor,
		}
		if t.RetentionMs > 0 {
			kCfg.ConfigEntries = []kafka.ConfigEntry{
				{ConfigName: "retention.ms", ConfigValue: strconv.FormatInt(t.RetentionMs, 10)},
			}
		}
		if err := m.conn.CreateTopics(kCfg); err != nil {
			if m.TopicExists(t.Name) {
				continue
			}
			return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to create topic").WithDetail(t.Name)
		}
		m.logger.Info("Topic created", logging.String("topic", t.Name))
	}
	return nil
}

// Close closes the controller connection.
func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the topics the worker needs, named as configured.
func DefaultTopics(requestTopic, eventTopic, deadLetterTopic string, replication int) []TopicConfig {
	const day = int64(24 * time.Hour / time.Millisecond)
	if replication <= 0 {
		replication = 1
	}
	topics := []TopicConfig{
		{Name: requestTopic, NumPartitions: 6, ReplicationFactor: replication, RetentionMs: 7 * day},
		{Name: eventTopic, NumPartitions: 3, ReplicationFactor: replication, RetentionMs: 7 * day},
	}
	if deadLetterTopic != "" {
		topics = append(topics, TopicConfig{Name: deadLetterTopic, NumPartitions: 1, ReplicationFactor: replication, RetentionMs: 30 * day})
	}
	return topics
}

//Personal.AI order the ending
