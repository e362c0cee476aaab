package snapshot

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/homeass"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
	"github.com/nerrad567/gray-logic-ets2hass/migrations"
)

// Run describes one conversion.
type Run struct {
	// ID is generated when empty.
	ID string

	Project      string
	Source       string
	Format       string
	AddressStyle string
	Fixes        string

	// CreatedAt defaults to now.
	CreatedAt time.Time

	Warnings int
	Errors   int

	// Output is the generated artifact; only its digest is stored.
	Output []byte
}

// Summary is a stored run.
type Summary struct {
	ID             int64
	RunID          string
	Project        string
	Source         string
	Format         string
	AddressStyle   string
	Fixes          string
	CreatedAt      time.Time
	GroupAddresses int
	Objects        int
	Devices        int
	Warnings       int
	Errors         int
	OutputSHA256   string
}

// Device is a stored Home Assistant device.
type Device struct {
	Domain     string
	Name       string
	Definition string
}

// Repository defines the snapshot operations.
type Repository interface {
	Save(ctx context.Context, run *Run, model *project.Model, categories []homeass.Category) (int64, error)
	Latest(ctx context.Context, projectName string) (*Summary, error)
	Count(ctx context.Context) (int, error)
	Devices(ctx context.Context, snapshotID int64) ([]Device, error)
}

// SQLiteRepository stores snapshots in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a snapshot repository. The schema must have
// been migrated (see Migrate).
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Migrate brings the snapshot schema up to date.
func Migrate(ctx context.Context, db *database.DB) error {
	all, err := database.LoadMigrations(migrations.FS)
	if err != nil {
		return err
	}
	if _, err := db.Migrate(ctx, all); err != nil {
		return fmt.Errorf("migrating snapshot schema: %w", err)
	}
	return nil
}

// Digest returns the hex SHA-256 of an artifact, as stored in Summary.
func Digest(output []byte) string {
	sum := sha256.Sum256(output)
	return hex.EncodeToString(sum[:])
}

// Save writes a run and its model in one transaction. run.ID and
// run.CreatedAt are filled when empty.
//
// Parameters:
//   - run: Run metadata and artifact
//   - model: The corrected project model
//   - categories: Generated devices; nil for formats without devices
//
// Returns:
//   - int64: The snapshot row id
//   - error: If any insert fails; nothing is stored then
func (r *SQLiteRepository) Save(ctx context.Context, run *Run, model *project.Model, categories []homeass.Category) (int64, error) {
	if run.ID == "" {
		run.ID = "run-" + uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	devices := 0
	for _, cat := range categories {
		devices += len(cat.Devices)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, project, source, format, address_style, fixes, created_at,
		                        group_addresses, objects, devices, warnings, errors, output_sha256)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, run.Source, run.Format, run.AddressStyle, run.Fixes,
		run.CreatedAt.Format(time.RFC3339Nano),
		model.NumGroupAddresses(), model.NumObjects(), devices,
		run.Warnings, run.Errors, Digest(run.Output),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading snapshot id: %w", err)
	}

	if err := insertModel(ctx, tx, id, model); err != nil {
		return 0, err
	}
	if err := insertDevices(ctx, tx, id, categories); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}
	return id, nil
}

func insertModel(ctx context.Context, tx *sql.Tx, id int64, model *project.Model) error {
	for _, gaID := range model.GroupAddressIDs() {
		ga, err := model.GroupAddress(gaID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_group_addresses (snapshot_id, id, name, address, raw, datapoint)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, ga.ID, ga.Name, ga.Address, ga.Raw, ga.Datapoint,
		); err != nil {
			return fmt.Errorf("inserting group address %s: %w", ga.ID, err)
		}
	}

	for _, objID := range model.ObjectIDs() {
		obj, err := model.Object(objID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_objects (snapshot_id, id, name, type, floor, room, domain)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, obj.ID, obj.Name, string(obj.Type), obj.Floor, obj.Room, obj.Ext.Domain,
		); err != nil {
			return fmt.Errorf("inserting object %s: %w", obj.ID, err)
		}
		for pos, gaID := range model.ObjectGroupAddresses(objID) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO snapshot_associations (snapshot_id, object_id, group_address_id, position)
				 VALUES (?, ?, ?, ?)`,
				id, objID, gaID, pos,
			); err != nil {
				return fmt.Errorf("inserting association %s/%s: %w", objID, gaID, err)
			}
		}
	}
	return nil
}

func insertDevices(ctx context.Context, tx *sql.Tx, id int64, categories []homeass.Category) error {
	for _, cat := range categories {
		for pos := range cat.Devices {
			dev := &cat.Devices[pos]
			def, err := yaml.Marshal(dev)
			if err != nil {
				return fmt.Errorf("encoding device %q: %w", dev.Name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO snapshot_devices (snapshot_id, domain, position, name, definition)
				 VALUES (?, ?, ?, ?, ?)`,
				id, cat.Domain, pos, dev.Name, string(def),
			); err != nil {
				return fmt.Errorf("inserting device %q: %w", dev.Name, err)
			}
		}
	}
	return nil
}

const summaryColumns = `id, run_id, project, source, format, address_style, fixes, created_at,
	group_addresses, objects, devices, warnings, errors, output_sha256`

// Latest returns the most recent snapshot of a project, or of any project
// when projectName is empty.
//
// Returns:
//   - *Summary: The stored run
//   - error: ErrNotFound when nothing is stored
func (r *SQLiteRepository) Latest(ctx context.Context, projectName string) (*Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM snapshots`
	var args []any
	if projectName != "" {
		query += ` WHERE project = ?`
		args = append(args, projectName)
	}
	query += ` ORDER BY id DESC LIMIT 1`

	var s Summary
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.RunID, &s.Project, &s.Source, &s.Format, &s.AddressStyle, &s.Fixes, &createdAt,
		&s.GroupAddresses, &s.Objects, &s.Devices, &s.Warnings, &s.Errors, &s.OutputSHA256,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt) //nolint:errcheck // Format is ours
	return &s, nil
}

// Count returns the number of stored snapshots.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}

// Devices returns the devices of a snapshot in output order.
func (r *SQLiteRepository) Devices(ctx context.Context, snapshotID int64) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT domain, name, definition FROM snapshot_devices
		 WHERE snapshot_id = ? ORDER BY domain, position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.Domain, &d.Name, &d.Definition); err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}
