package inmemdb

import (
	"context"

	"github.com/trezcool/rollcall/core/preference"
)

type preferenceRepository struct {
	db *preferenceTable
}

var _ preference.Repository = (*preferenceRepository)(nil)

func NewPreferenceRepository(db *DB) preference.Repository {
	return &preferenceRepository{db: db.prefs}
}

func (repo *preferenceRepository) GetPreference(_ context.Context, key string) (string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if val, ok := repo.db.table[key]; ok {
		return val, nil
	}
	return "", preference.ErrNotFound
}

func (repo *preferenceRepository) SetPreference(_ context.Context, key, value string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[key] = value
	return nil
}
