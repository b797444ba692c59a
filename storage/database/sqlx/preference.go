package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core/preference"
)

const (
	getPreferenceQuery = `SELECT key, value, updated_at FROM preferences WHERE key = $1`
	setPreferenceQuery = `
INSERT INTO preferences (key, value, updated_at) VALUES (:key, :value, :updated_at)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

type preferenceRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

type preferenceRepository struct {
	db *sqlx.DB
}

var _ preference.Repository = (*preferenceRepository)(nil)

func NewPreferenceRepository(db *sqlx.DB) preference.Repository {
	return &preferenceRepository{db: db}
}

func (repo *preferenceRepository) GetPreference(ctx context.Context, key string) (string, error) {
	var row preferenceRow
	if err := repo.db.GetContext(ctx, &row, getPreferenceQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", preference.ErrNotFound
		}
		return "", errors.Wrapf(err, "selecting preference %q", key)
	}
	return row.Value, nil
}

func (repo *preferenceRepository) SetPreference(ctx context.Context, key, value string) error {
	row := preferenceRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := repo.db.NamedExecContext(ctx, setPreferenceQuery, row); err != nil {
		return errors.Wrapf(err, "upserting preference %q", key)
	}
	return nil
}
