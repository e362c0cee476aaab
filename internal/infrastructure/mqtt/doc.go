// Package mqtt publishes generated configuration to an MQTT broker.
//
// Each artifact is published retained, so Home Assistant helpers or
// provisioning scripts subscribed to the topic always see the latest
// configuration of a project, even when they connect after the run:
//
//	<prefix>/<project>/<format>       the generated file
//	<prefix>/<project>/<format>/meta  {"project", "format", "sha256", "bytes", "devices", "generated_at"}
//
// Project and format names are folded into safe topic levels (see
// TopicLevel).
//
// # Security Considerations
//
//   - Enable TLS for brokers outside the local host (cfg.Broker.TLS=true)
//   - Credentials should come from ETS2HASS_MQTT_USERNAME / _PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(ctx, cfg.MQTT, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishArtifact(ctx, mqtt.Artifact{
//	    Project: "House", Format: "homeass", Payload: out,
//	})
package mqtt
