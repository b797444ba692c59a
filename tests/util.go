package testutil

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/dashboard"
	"github.com/trezcool/rollcall/core/preference"
	appfs "github.com/trezcool/rollcall/fs"
	chartsvc "github.com/trezcool/rollcall/services/chart"
	logsvc "github.com/trezcool/rollcall/services/logger"
	inmemdb "github.com/trezcool/rollcall/storage/database/inmem"
)

// App bundles the services wired the same way the API does, backed by the in-memory database.
type App struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Seed       attendance.Seed
	DB         *inmemdb.DB
	AttSvc     *attendance.Service
	PrefSvc    *preference.Service
	Dashboard  *dashboard.Dashboard
}

// NewLogger returns a logger that discards its output and never reports.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	dashboard.InitValidators(validate, translator)
	return validate, translator
}

// LoadSeed loads the embedded roster & history.
func LoadSeed(t *testing.T, validate *validator.Validate) attendance.Seed {
	t.Helper()

	f, err := appfs.OpenSeed("")
	if err != nil {
		t.Fatalf("OpenSeed() failed: %v", err)
	}
	defer f.Close()

	seed, err := attendance.LoadSeed(f, validate)
	if err != nil {
		t.Fatalf("LoadSeed() failed: %v", err)
	}
	return seed
}

// NewApp builds a fresh dashboard over the embedded seed.
func NewApp(t *testing.T) *App {
	t.Helper()

	conf := core.NewTestConfig()
	logger := NewLogger(conf)
	validate, translator := NewValidator()
	seed := LoadSeed(t, validate)

	db := inmemdb.Open(seed.Students...)
	attSvc := attendance.NewService(inmemdb.NewRosterRepository(db), conf.Dashboard.Location())
	prefSvc := preference.NewService(inmemdb.NewPreferenceRepository(db))

	dash, err := dashboard.New(
		context.Background(),
		dashboard.Deps{
			Attendance:  attSvc,
			Preferences: prefSvc,
			Charts:      chartsvc.NewGoChartRenderer(),
			History:     seed.History,
			Logger:      logger,
		},
		dashboard.Options{
			DefaultSection: conf.Dashboard.DefaultSection,
			Location:       conf.Dashboard.Location(),
			ChartWidth:     conf.Dashboard.ChartWidth,
			ChartHeight:    conf.Dashboard.ChartHeight,
		},
	)
	if err != nil {
		t.Fatalf("dashboard.New() failed: %v", err)
	}

	return &App{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Seed:       seed,
		DB:         db,
		AttSvc:     attSvc,
		PrefSvc:    prefSvc,
		Dashboard:  dash,
	}
}

// Student returns the current record of student `id`.
func Student(t *testing.T, svc *attendance.Service, id int) attendance.StudentRecord {
	t.Helper()

	rec, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%d) failed: %v", id, err)
	}
	return rec
}
