package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/pipeline"
	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/snapshot"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/mqtt"
)

// runSinks hands the result to every enabled sink. A failing sink is fatal.
func runSinks(ctx context.Context, cfg *config.Config, source string, res *pipeline.Result, log *logging.Logger) error {
	generatedAt := time.Now().UTC()
	digest := snapshot.Digest(res.Output)

	if cfg.Database.Enabled {
		if err := storeSnapshot(ctx, cfg, source, res, digest, generatedAt, log); err != nil {
			return fmt.Errorf("storing snapshot: %w", err)
		}
	}

	if cfg.MQTT.Enabled {
		if err := publishArtifact(ctx, cfg.MQTT, res, digest, generatedAt, log); err != nil {
			return fmt.Errorf("publishing to MQTT: %w", err)
		}
	}

	if cfg.InfluxDB.Enabled {
		if err := recordStats(ctx, cfg.InfluxDB, res, generatedAt, log); err != nil {
			return fmt.Errorf("recording statistics: %w", err)
		}
	}
	return nil
}

// storeSnapshot saves the run and reports whether the output changed since
// the previous run of the same project.
func storeSnapshot(ctx context.Context, cfg *config.Config, source string, res *pipeline.Result, digest string, at time.Time, log *logging.Logger) error {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if err := snapshot.Migrate(ctx, db); err != nil {
		return err
	}
	repo := snapshot.NewSQLiteRepository(db.DB)

	prev, err := repo.Latest(ctx, res.ProjectName)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		log.Info("first snapshot of project", "project", res.ProjectName)
	case err != nil:
		return err
	case prev.OutputSHA256 == digest && prev.Format == res.Format:
		log.Info("output unchanged since last run", "project", res.ProjectName, "previous", prev.RunID)
	default:
		log.Info("output changed since last run",
			"project", res.ProjectName,
			"previous", prev.RunID,
			"previous_devices", prev.Devices,
			"devices", res.Stats.Devices,
		)
	}

	run := &snapshot.Run{
		Project:      res.ProjectName,
		Source:       source,
		Format:       res.Format,
		AddressStyle: res.AddressStyle,
		Fixes:        cfg.Conversion.Fixes,
		CreatedAt:    at,
		Warnings:     log.Warnings(),
		Errors:       log.Errors(),
		Output:       res.Output,
	}
	id, err := repo.Save(ctx, run, res.Model, res.Categories())
	if err != nil {
		return err
	}
	log.Info("snapshot stored", "id", id, "run_id", run.ID, "path", db.Path())
	return nil
}

func publishArtifact(ctx context.Context, cfg config.MQTTConfig, res *pipeline.Result, digest string, at time.Time, log *logging.Logger) error {
	client, err := mqtt.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()

	err = client.PublishArtifact(ctx, mqtt.Artifact{
		Project:     res.ProjectName,
		Format:      res.Format,
		Payload:     res.Output,
		Digest:      digest,
		Devices:     res.Entries(),
		GeneratedAt: at,
	})
	if err != nil {
		return err
	}
	log.Info("artifact published", "topic", client.Topics().Artifact(res.ProjectName, res.Format))
	return nil
}

func recordStats(ctx context.Context, cfg config.InfluxDBConfig, res *pipeline.Result, at time.Time, log *logging.Logger) error {
	client, err := influxdb.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.WriteConversionStats(ctx, influxdb.ConversionStats{
		Project:        res.ProjectName,
		Format:         res.Format,
		AddressStyle:   res.AddressStyle,
		GroupAddresses: res.Stats.GroupAddresses,
		Skipped:        res.Stats.SkippedGroupAddresses,
		Objects:        res.Stats.Objects,
		Devices:        res.Entries(),
		Warnings:       log.Warnings(),
		Errors:         log.Errors(),
		Bytes:          res.Stats.Bytes,
		Duration:       res.Stats.Duration,
		Time:           at,
	})
	if err != nil {
		return err
	}
	log.Debug("run statistics recorded", "bucket", cfg.Bucket)
	return nil
}
