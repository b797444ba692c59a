package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

type (
	// Repository is the roster store. Records keep their insertion order;
	// none are added or removed after the roster is loaded.
	Repository interface {
		QueryStudents(ctx context.Context) ([]StudentRecord, error)
		GetStudent(ctx context.Context, id int) (StudentRecord, error)
		UpdateStudent(ctx context.Context, rec StudentRecord) error
	}

	Service struct {
		repo Repository
		loc  *time.Location
	}
)

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, loc: loc}
}

func (svc *Service) QueryAll(ctx context.Context) ([]StudentRecord, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (StudentRecord, error) {
	return svc.repo.GetStudent(ctx, id)
}

// SelectView filters the roster with the given view state.
func (svc *Service) SelectView(ctx context.Context, vs ViewState) ([]StudentRecord, error) {
	records, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return vs.Select(records), nil
}

func (svc *Service) Aggregate(ctx context.Context, section string) (AggregateStats, error) {
	records, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return AggregateStats{}, errors.Wrap(err, "querying students")
	}
	return Aggregate(records, section), nil
}

func (svc *Service) Sections(ctx context.Context) ([]string, error) {
	records, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return Sections(records), nil
}

// SetStatus sets the status of student `id` and stamps its time.
// found is false, with no error, when no such student exists.
func (svc *Service) SetStatus(ctx context.Context, id int, st Status) (rec StudentRecord, found bool, err error) {
	if !st.Valid() {
		return StudentRecord{}, false, errors.Wrapf(ErrInvalidStatus, "%q", st)
	}
	rec, found, err = svc.get(ctx, id)
	if !found || err != nil {
		return rec, found, err
	}

	rec.Status = st
	rec.Time = StampTime(st, svc.loc)
	if err = svc.repo.UpdateStudent(ctx, rec); err != nil {
		return StudentRecord{}, true, errors.Wrap(err, "updating student")
	}
	return rec, true, nil
}

// SetNote sets the note of student `id`; an empty note is a valid note.
// found is false, with no error, when no such student exists.
func (svc *Service) SetNote(ctx context.Context, id int, note string) (rec StudentRecord, found bool, err error) {
	rec, found, err = svc.get(ctx, id)
	if !found || err != nil {
		return rec, found, err
	}

	rec.Note = null.StringFrom(note)
	if err = svc.repo.UpdateStudent(ctx, rec); err != nil {
		return StudentRecord{}, true, errors.Wrap(err, "updating student")
	}
	return rec, true, nil
}

func (svc *Service) get(ctx context.Context, id int) (StudentRecord, bool, error) {
	rec, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return StudentRecord{}, false, nil
		}
		return StudentRecord{}, false, errors.Wrap(err, "getting student")
	}
	return rec, true, nil
}
