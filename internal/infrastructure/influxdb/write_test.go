package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/config"
)

// fakeWriteAPI records points instead of sending them.
type fakeWriteAPI struct {
	api.WriteAPIBlocking
	points []*write.Point
	err    error
}

func (f *fakeWriteAPI) WritePoint(_ context.Context, points ...*write.Point) error {
	if f.err != nil {
		return f.err
	}
	f.points = append(f.points, points...)
	return nil
}

func TestConversionPoint(t *testing.T) {
	ts := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	p := conversionPoint(ConversionStats{
		Project:        "House",
		Format:         "linknx",
		AddressStyle:   "TwoLevel",
		GroupAddresses: 20,
		Skipped:        1,
		Objects:        6,
		Devices:        5,
		Warnings:       2,
		Bytes:          4096,
		Duration:       1500 * time.Millisecond,
		Time:           ts,
	})

	if p.Name() != MeasurementConversion {
		t.Errorf("Name() = %q, want %q", p.Name(), MeasurementConversion)
	}
	if !p.Time().Equal(ts) {
		t.Errorf("Time() = %v, want %v", p.Time(), ts)
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	wantTags := map[string]string{"project": "House", "format": "linknx", "address_style": "TwoLevel"}
	for k, v := range wantTags {
		if tags[k] != v {
			t.Errorf("tag %s = %q, want %q", k, tags[k], v)
		}
	}

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	wantFields := map[string]int64{
		"group_addresses": 20,
		"skipped":         1,
		"objects":         6,
		"devices":         5,
		"warnings":        2,
		"errors":          0,
		"bytes":           4096,
		"duration_ms":     1500,
	}
	for k, v := range wantFields {
		if fields[k] != v {
			t.Errorf("field %s = %v (%T), want %d", k, fields[k], fields[k], v)
		}
	}
}

func TestConversionPoint_DefaultsTime(t *testing.T) {
	before := time.Now()
	p := conversionPoint(ConversionStats{Project: "House"})

	if p.Time().Before(before) {
		t.Errorf("Time() = %v, want at or after %v", p.Time(), before)
	}
}

func TestWriteConversionStats_Fake(t *testing.T) {
	fake := &fakeWriteAPI{}
	c := newClient(nil, fake, config.InfluxDBConfig{}, time.Second)

	if err := c.WriteConversionStats(context.Background(), ConversionStats{Project: "House"}); err != nil {
		t.Fatalf("WriteConversionStats() error = %v", err)
	}
	if len(fake.points) != 1 {
		t.Fatalf("points written = %d, want 1", len(fake.points))
	}
}

func TestWriteConversionStats_Rejected(t *testing.T) {
	fake := &fakeWriteAPI{err: errors.New("bucket not found")}
	c := newClient(nil, fake, config.InfluxDBConfig{}, time.Second)

	err := c.WriteConversionStats(context.Background(), ConversionStats{Project: "House"})
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("WriteConversionStats() error = %v, want ErrWriteFailed", err)
	}
}

func TestWritePoint_AfterClose(t *testing.T) {
	fake := &fakeWriteAPI{}
	c := newClient(nil, fake, config.InfluxDBConfig{}, time.Second)
	c.Close()

	err := c.WriteConversionStats(context.Background(), ConversionStats{Project: "House"})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("WriteConversionStats() error = %v, want ErrNotConnected", err)
	}
	if len(fake.points) != 0 {
		t.Errorf("points written after Close = %d, want 0", len(fake.points))
	}
}
