// Package influxdb records converter runs in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Each run becomes one
// point of the ets_import measurement, tagged by project, output format and
// address style, with the import and generation counts as fields. Dashboards
// can then follow how a project's installation grows between exports.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.WriteConversionStats(ctx, influxdb.ConversionStats{
//	    Project: "House",
//	    Format:  "homeass",
//	    Devices: 42,
//	})
//
// # Error Handling
//
// Writes are blocking and return ErrWriteFailed wrapping the server error.
// Connect returns ErrDisabled when the sink is switched off, which callers
// treat as "nothing to do".
package influxdb
