package influxdb

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementConversion is the measurement of one converter run.
const MeasurementConversion = "ets_import"

// ConversionStats summarises one converter run.
type ConversionStats struct {
	Project      string
	Format       string
	AddressStyle string

	GroupAddresses int
	Skipped        int
	Objects        int
	Devices        int
	Warnings       int
	Errors         int
	Bytes          int
	Duration       time.Duration

	// Time stamps the point; zero means now.
	Time time.Time
}

// WriteConversionStats records a converter run as one point of
// MeasurementConversion, tagged by project, format and address style.
//
// Parameters:
//   - ctx: Context for cancellation
//   - stats: The run to record
//
// Returns:
//   - error: ErrNotConnected, or ErrWriteFailed wrapping the server error
func (c *Client) WriteConversionStats(ctx context.Context, stats ConversionStats) error {
	return c.WritePoint(ctx, conversionPoint(stats))
}

// WritePoint writes an arbitrary point and waits for the server to accept it.
func (c *Client) WritePoint(ctx context.Context, point *write.Point) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	writeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.writeAPI.WritePoint(writeCtx, point); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

func conversionPoint(stats ConversionStats) *write.Point {
	ts := stats.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		MeasurementConversion,
		map[string]string{
			"project":       stats.Project,
			"format":        stats.Format,
			"address_style": stats.AddressStyle,
		},
		map[string]interface{}{
			"group_addresses": stats.GroupAddresses,
			"skipped":         stats.Skipped,
			"objects":         stats.Objects,
			"devices":         stats.Devices,
			"warnings":        stats.Warnings,
			"errors":          stats.Errors,
			"bytes":           stats.Bytes,
			"duration_ms":     stats.Duration.Milliseconds(),
		},
		ts,
	)
}
