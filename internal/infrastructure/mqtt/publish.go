package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - ctx: Bounds the wait for broker acknowledgment
//   - topic: The topic to publish to
//   - payload: The message payload (max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	if err := wait(ctx, c.client.Publish(topic, qos, retained, payload), defaultPublishTimeout); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	if c.logger != nil {
		c.logger.Debug("published", "topic", topic, "bytes", len(payload), "retained", retained)
	}
	return nil
}

// Artifact is a generated configuration file.
type Artifact struct {
	Project string
	Format  string
	Payload []byte

	// Digest identifies the payload (hex SHA-256).
	Digest      string
	Devices     int
	GeneratedAt time.Time
}

// artifactMeta is the JSON document published next to an artifact.
type artifactMeta struct {
	Project     string    `json:"project"`
	Format      string    `json:"format"`
	Digest      string    `json:"sha256"`
	Bytes       int       `json:"bytes"`
	Devices     int       `json:"devices"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PublishArtifact publishes a generated file and its metadata, both
// retained with the configured QoS, so a subscriber that arrives later
// still receives the latest configuration.
//
// Topics:
//   - <prefix>/<project>/<format>       the file content
//   - <prefix>/<project>/<format>/meta  JSON metadata
func (c *Client) PublishArtifact(ctx context.Context, a Artifact) error {
	qos := byte(c.cfg.QoS)

	if err := c.Publish(ctx, c.topics.Artifact(a.Project, a.Format), a.Payload, qos, true); err != nil {
		return err
	}

	meta, err := json.Marshal(artifactMeta{
		Project:     a.Project,
		Format:      a.Format,
		Digest:      a.Digest,
		Bytes:       len(a.Payload),
		Devices:     a.Devices,
		GeneratedAt: a.GeneratedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: encoding metadata: %w", ErrPublishFailed, err)
	}
	return c.Publish(ctx, c.topics.ArtifactMeta(a.Project, a.Format), meta, qos, true)
}
