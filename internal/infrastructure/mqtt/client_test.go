package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/config"
)

// fakeToken completes immediately unless block is set.
type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error, block bool) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	if !block {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeBroker implements the parts of pahomqtt.Client the package uses.
type fakeBroker struct {
	pahomqtt.Client

	mu           sync.Mutex
	connected    bool
	publishErr   error
	block        bool
	messages     []published
	disconnected bool
}

func (f *fakeBroker) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeBroker) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr == nil && !f.block {
		f.messages = append(f.messages, published{topic, qos, retained, payload.([]byte)})
	}
	return newFakeToken(f.publishErr, f.block)
}

func (f *fakeBroker) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnected = true
}

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "ets2hass-test",
		},
		QoS:         1,
		TopicPrefix: "site/knx",
	}
}

func newTestClient(broker *fakeBroker) *Client {
	return newClient(broker, testConfig(), nil)
}

// =============================================================================
// Publish Tests
// =============================================================================

func TestPublish(t *testing.T) {
	broker := &fakeBroker{connected: true}
	client := newTestClient(broker)

	if err := client.Publish(context.Background(), "site/knx/test", []byte("hello"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(broker.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(broker.messages))
	}
	if got := string(broker.messages[0].payload); got != "hello" {
		t.Errorf("payload = %q, want %q", got, "hello")
	}
}

func TestPublishValidation(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		qos     byte
		payload []byte
		want    error
	}{
		{"empty topic", "", 1, []byte("x"), ErrInvalidTopic},
		{"invalid qos", "a/b", 3, []byte("x"), ErrInvalidQoS},
		{"payload too large", "a/b", 1, make([]byte, maxPayloadSize+1), ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(&fakeBroker{connected: true})
			err := client.Publish(context.Background(), tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPublishDisconnected(t *testing.T) {
	client := newTestClient(&fakeBroker{connected: false})

	err := client.Publish(context.Background(), "a/b", []byte("x"), 1, false)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestPublishBrokerError(t *testing.T) {
	client := newTestClient(&fakeBroker{connected: true, publishErr: errors.New("not authorised")})

	err := client.Publish(context.Background(), "a/b", []byte("x"), 1, false)
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want %v", err, ErrPublishFailed)
	}
}

func TestPublishCancelled(t *testing.T) {
	client := newTestClient(&fakeBroker{connected: true, block: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Publish(ctx, "a/b", []byte("x"), 1, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Publish() error = %v, want %v", err, context.Canceled)
	}
}

func TestPublishArtifact(t *testing.T) {
	broker := &fakeBroker{connected: true}
	client := newTestClient(broker)

	generated := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	err := client.PublishArtifact(context.Background(), Artifact{
		Project:     "My House",
		Format:      "homeass",
		Payload:     []byte("light:\n"),
		Digest:      "abc123",
		Devices:     4,
		GeneratedAt: generated,
	})
	if err != nil {
		t.Fatalf("PublishArtifact() error = %v", err)
	}

	if len(broker.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(broker.messages))
	}

	content := broker.messages[0]
	if content.topic != "site/knx/my-house/homeass" {
		t.Errorf("content topic = %q", content.topic)
	}
	if !content.retained || content.qos != 1 {
		t.Errorf("content retained=%v qos=%d, want retained qos 1", content.retained, content.qos)
	}

	meta := broker.messages[1]
	if meta.topic != "site/knx/my-house/homeass/meta" {
		t.Errorf("meta topic = %q", meta.topic)
	}

	var doc map[string]any
	if err := json.Unmarshal(meta.payload, &doc); err != nil {
		t.Fatalf("meta is not JSON: %v", err)
	}
	if doc["sha256"] != "abc123" {
		t.Errorf("sha256 = %v, want abc123", doc["sha256"])
	}
	if doc["bytes"] != float64(7) {
		t.Errorf("bytes = %v, want 7", doc["bytes"])
	}
	if doc["devices"] != float64(4) {
		t.Errorf("devices = %v, want 4", doc["devices"])
	}
	if doc["generated_at"] != "2026-10-19T09:30:00Z" {
		t.Errorf("generated_at = %v", doc["generated_at"])
	}
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestClose(t *testing.T) {
	broker := &fakeBroker{connected: true}
	client := newTestClient(broker)

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !broker.disconnected {
		t.Error("broker was not disconnected")
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(&fakeBroker{connected: true})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() with cancelled context expected error")
	}

	disconnected := newTestClient(&fakeBroker{connected: false})
	if err := disconnected.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestConnectRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 1 // Nothing listens there

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := Connect(ctx, cfg, nil)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want %v", err, ErrConnectionFailed)
	}
}

// =============================================================================
// Topic Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	topics := Topics{Prefix: "site/knx/"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"artifact", topics.Artifact("Maison Dupont", "homeass"), "site/knx/maison-dupont/homeass"},
		{"artifact meta", topics.ArtifactMeta("Maison Dupont", "linknx"), "site/knx/maison-dupont/linknx/meta"},
		{"all artifacts", topics.AllArtifacts(), "site/knx/+/+"},
		{"default prefix", Topics{}.Artifact("House", "homeass"), "ets2hass/house/homeass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTopicLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"House", "house"},
		{"My  House / Ground", "my-house-ground"},
		{"Étage #1+", "étage-1"},
		{"v1.2_final", "v1.2_final"},
		{"  leading", "leading"},
		{"///", "unnamed"},
		{"", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TopicLevel(tt.input); got != tt.want {
				t.Errorf("TopicLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
