//go:build integration

package mqtt

import (
	"context"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Integration tests against a real broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

// TestIntegration_RetainedArtifact verifies a late subscriber receives the
// last published artifact.
func TestIntegration_RetainedArtifact(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "ets2hass-int-publisher"
	cfg.TopicPrefix = "ets2hass-int"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	payload := []byte("light:\n  - name: Ceiling\n")
	err = client.PublishArtifact(ctx, Artifact{Project: "Integration", Format: "homeass", Payload: payload, GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("PublishArtifact() error = %v", err)
	}

	opts := buildClientOptions(cfg)
	opts.SetClientID("ets2hass-int-subscriber")
	sub := pahomqtt.NewClient(opts)
	if err := wait(ctx, sub.Connect(), defaultConnectTimeout); err != nil {
		t.Fatalf("subscriber connect error = %v", err)
	}
	defer sub.Disconnect(defaultDisconnectQuiesce)

	var mu sync.Mutex
	var received []byte
	got := make(chan struct{})
	topic := client.Topics().Artifact("Integration", "homeass")
	token := sub.Subscribe(topic, 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		mu.Lock()
		defer mu.Unlock()
		if received == nil {
			received = msg.Payload()
			close(got)
		}
	})
	if err := wait(ctx, token, defaultConnectTimeout); err != nil {
		t.Fatalf("subscribe error = %v", err)
	}

	select {
	case <-got:
	case <-ctx.Done():
		t.Fatal("retained artifact not received")
	}

	mu.Lock()
	defer mu.Unlock()
	if string(received) != string(payload) {
		t.Errorf("received %q, want %q", received, payload)
	}
}
