package inmemdb

import (
	"sync"

	"github.com/trezcool/rollcall/core/attendance"
)

type (
	// DB is the process-lifetime store: the roster and the preferences.
	DB struct {
		roster *rosterTable
		prefs  *preferenceTable
	}

	rosterTable struct {
		sync.RWMutex
		order []int // insertion order
		table map[int]*attendance.StudentRecord
	}

	preferenceTable struct {
		sync.RWMutex
		table map[string]string
	}
)

// Open returns a DB holding `records`, in order. Records with a duplicate id are dropped.
func Open(records ...attendance.StudentRecord) *DB {
	db := &DB{
		roster: &rosterTable{
			order: make([]int, 0, len(records)),
			table: make(map[int]*attendance.StudentRecord, len(records)),
		},
		prefs: &preferenceTable{table: make(map[string]string)},
	}
	for _, rec := range records {
		if _, ok := db.roster.table[rec.ID]; ok {
			continue
		}
		rec := rec
		db.roster.order = append(db.roster.order, rec.ID)
		db.roster.table[rec.ID] = &rec
	}
	return db
}
