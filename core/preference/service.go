package preference

import (
	"context"

	"github.com/pkg/errors"
)

const (
	KeyDarkMode = "darkMode"

	ValueEnabled  = "enabled"
	ValueDisabled = "disabled"
)

var (
	// errors
	ErrNotFound = errors.New("preference not found")
)

type (
	// Repository stores string preferences by key. It is the only state that outlives the process.
	Repository interface {
		GetPreference(ctx context.Context, key string) (string, error)
		SetPreference(ctx context.Context, key, value string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// DarkMode reads the stored flag; a missing key means disabled.
func (svc *Service) DarkMode(ctx context.Context) (bool, error) {
	val, err := svc.repo.GetPreference(ctx, KeyDarkMode)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "getting dark mode preference")
	}
	return val == ValueEnabled, nil
}

// SaveDarkMode stores the flag as `enabled` or `disabled`.
func (svc *Service) SaveDarkMode(ctx context.Context, enabled bool) error {
	val := ValueDisabled
	if enabled {
		val = ValueEnabled
	}
	if err := svc.repo.SetPreference(ctx, KeyDarkMode, val); err != nil {
		return errors.Wrap(err, "saving dark mode preference")
	}
	return nil
}

// ToggleDarkMode flips the stored flag and returns the new value.
func (svc *Service) ToggleDarkMode(ctx context.Context) (bool, error) {
	enabled, err := svc.DarkMode(ctx)
	if err != nil {
		return false, err
	}
	enabled = !enabled
	if err = svc.SaveDarkMode(ctx, enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

// SetDarkMode toggles the flag only when it differs from `enabled`; changed reports whether it did.
func (svc *Service) SetDarkMode(ctx context.Context, enabled bool) (changed bool, err error) {
	curr, err := svc.DarkMode(ctx)
	if err != nil {
		return false, err
	}
	if curr == enabled {
		return false, nil
	}
	if _, err = svc.ToggleDarkMode(ctx); err != nil {
		return false, err
	}
	return true, nil
}
