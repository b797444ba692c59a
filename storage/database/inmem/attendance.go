package inmemdb

import (
	"context"

	"github.com/trezcool/rollcall/core/attendance"
)

type rosterRepository struct {
	db *rosterTable
}

var _ attendance.Repository = (*rosterRepository)(nil)

func NewRosterRepository(db *DB) attendance.Repository {
	return &rosterRepository{db: db.roster}
}

func (repo *rosterRepository) QueryStudents(_ context.Context) ([]attendance.StudentRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.StudentRecord, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		records = append(records, *repo.db.table[id])
	}
	return records, nil
}

func (repo *rosterRepository) GetStudent(_ context.Context, id int) (attendance.StudentRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return attendance.StudentRecord{}, attendance.ErrNotFound
}

// UpdateStudent saves the mutable fields of `rec`: status, time & note.
func (repo *rosterRepository) UpdateStudent(_ context.Context, rec attendance.StudentRecord) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	curr, ok := repo.db.table[rec.ID]
	if !ok {
		return attendance.ErrNotFound
	}
	curr.Status = rec.Status
	curr.Time = rec.Time
	curr.Note = rec.Note
	return nil
}
