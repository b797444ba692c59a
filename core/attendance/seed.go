package attendance

import (
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rollcall/core"
)

var ErrInvalidSeed = errors.New("invalid seed data")

type (
	// Seed is the start-up data: the roster, in display order, and the chart history.
	Seed struct {
		Students []StudentRecord
		History  History
	}

	seedStudent struct {
		ID      int     `mapstructure:"id"`
		Name    string  `mapstructure:"name"`
		Section string  `mapstructure:"section"`
		Status  string  `mapstructure:"status"`
		Time    string  `mapstructure:"time"`
		Note    *string `mapstructure:"note"`
	}
)

// LoadSeed reads YAML seed data: a `students` list and a `history` object.
// Student ids must be unique, and each time must agree with its status.
func LoadSeed(r io.Reader, validate *validator.Validate) (Seed, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return Seed{}, errors.Wrap(err, "reading seed")
	}

	var raw []seedStudent
	if err := v.UnmarshalKey("students", &raw); err != nil {
		return Seed{}, errors.Wrap(err, "decoding students")
	}
	var seed Seed
	if err := v.UnmarshalKey("history", &seed.History); err != nil {
		return Seed{}, errors.Wrap(err, "decoding history")
	}

	seen := make(map[int]struct{}, len(raw))
	seed.Students = make([]StudentRecord, 0, len(raw))
	for i, s := range raw {
		rec := StudentRecord{
			ID:      s.ID,
			Name:    strings.TrimSpace(s.Name),
			Section: strings.TrimSpace(s.Section),
			Status:  Status(core.CleanString(s.Status, true /* lower */)),
			Time:    strings.TrimSpace(s.Time),
			Note:    null.StringFromPtr(s.Note),
		}
		if err := validate.Struct(rec); err != nil {
			return Seed{}, errors.Wrapf(err, "student #%d", i)
		}
		if _, dup := seen[rec.ID]; dup {
			return Seed{}, errors.Wrapf(ErrInvalidSeed, "duplicate student id %d", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if !ValidTime(rec.Status, rec.Time) {
			return Seed{}, errors.Wrapf(ErrInvalidSeed, "student %d: time %q does not match status %q", rec.ID, rec.Time, rec.Status)
		}
		seed.Students = append(seed.Students, rec)
	}

	if err := seed.History.Validate(); err != nil {
		return Seed{}, errors.Wrap(err, "validating history")
	}
	return seed, nil
}
