package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type collectionPG struct {
	db    queryable
	table string
}

// NewCollectionPG returns a Collection backed directly by a PostgreSQL table
// with the same shape as the hosted one (quoted camelCase columns).
func NewCollectionPG(pool *pgxpool.Pool, table string) Collection {
	return newCollectionPG(pool, table)
}

func newCollectionPG(db queryable, table string) *collectionPG {
	if table == "" {
		table = DefaultTable
	}
	return &collectionPG{db: db, table: pgx.Identifier{table}.Sanitize()}
}

const recordCols = `id::text, COALESCE("patientName", ''), COALESCE("patientChart", ''), COALESCE("patientMedication", '')`

func (c *collectionPG) ListAll(ctx context.Context) ([]Record, error) {
	rows, err := c.db.Query(ctx, `SELECT `+recordCols+` FROM `+c.table)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", c.table, err)
	}
	defer rows.Close()

	items := []Record{}
	for rows.Next() {
		var r Record
		var id string
		if err := rows.Scan(&id, &r.PatientName, &r.PatientChart, &r.PatientMedication); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		r.ID = ID(id)
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.table, err)
	}
	return items, nil
}

func (c *collectionPG) Insert(ctx context.Context, d Draft) error {
	_, err := c.db.Exec(ctx, `
		INSERT INTO `+c.table+` (id, "patientName", "patientChart", "patientMedication")
		VALUES ($1, $2, $3, $4)`,
		uuid.New(), d.PatientName, d.PatientChart, d.PatientMedication)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", c.table, err)
	}
	return nil
}

func (c *collectionPG) Update(ctx context.Context, id ID, d Draft) error {
	tag, err := c.db.Exec(ctx, `
		UPDATE `+c.table+` SET "patientName"=$2, "patientChart"=$3, "patientMedication"=$4
		WHERE id::text = $1`,
		string(id), d.PatientName, d.PatientChart, d.PatientMedication)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *collectionPG) Delete(ctx context.Context, id ID) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM `+c.table+` WHERE id::text = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
