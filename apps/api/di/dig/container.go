package dig_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/rollcall/apps/api/echo"
	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/dashboard"
	"github.com/trezcool/rollcall/core/preference"
	appfs "github.com/trezcool/rollcall/fs"
	chartsvc "github.com/trezcool/rollcall/services/chart"
	emailsvc "github.com/trezcool/rollcall/services/email"
	logsvc "github.com/trezcool/rollcall/services/logger"
	"github.com/trezcool/rollcall/storage/database"
	inmemdb "github.com/trezcool/rollcall/storage/database/inmem"
	sqlxrepos "github.com/trezcool/rollcall/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newDB opens the Postgres database when it is the configured engine; nil otherwise.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *sql.DB {
	if !conf.Database.Persistent() {
		return nil
	}

	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	dashboard.InitValidators(validate, translator)
	return validate
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newSeed(conf *core.Config, validate *validator.Validate) (attendance.Seed, error) {
	f, err := appfs.OpenSeed(conf.Dashboard.SeedFile)
	if err != nil {
		return attendance.Seed{}, errors.Wrap(err, "opening seed")
	}
	defer f.Close()
	return attendance.LoadSeed(f, validate)
}

func newInMemDB(seed attendance.Seed) *inmemdb.DB {
	return inmemdb.Open(seed.Students...)
}

func newPreferenceRepository(conf *core.Config, db *sql.DB, memDB *inmemdb.DB) preference.Repository {
	if db != nil {
		return sqlxrepos.NewPreferenceRepository(database.OpenX(db, conf))
	}
	return inmemdb.NewPreferenceRepository(memDB)
}

func newAttendanceService(conf *core.Config, memDB *inmemdb.DB) *attendance.Service {
	return attendance.NewService(inmemdb.NewRosterRepository(memDB), conf.Dashboard.Location())
}

func newEmailTemplates(conf *core.Config) (*core.EmailTemplates, error) {
	return core.ParseEmailTemplates(appfs.FS, conf)
}

func newEmailService(conf *core.Config, templates *core.EmailTemplates, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, templates, logger)
	}
	return emailsvc.NewSendgridService(conf, templates, logger)
}

func newDashboard(
	conf *core.Config,
	logger core.Logger,
	seed attendance.Seed,
	attSvc *attendance.Service,
	prefSvc *preference.Service,
	renderer core.ChartRenderer,
) (*dashboard.Dashboard, error) {
	return dashboard.New(
		context.Background(),
		dashboard.Deps{
			Attendance:  attSvc,
			Preferences: prefSvc,
			Charts:      renderer,
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
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
	dash *dashboard.Dashboard,
	mailer core.EmailService,
) (*echoapi.Server, error) {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Dashboard:  dash,
		Mailer:     mailer,
	})
}

type NewConfigFunc func() *core.Config

// New returns a new dependency injection dig.Container
func New(newConfig ...NewConfigFunc) *dig.Container {
	c := dig.New()

	if len(newConfig) > 0 {
		must(c.Provide(newConfig[0]))
	} else {
		must(c.Provide(core.NewConfig))
	}
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newSeed))
	must(c.Provide(newInMemDB))
	must(c.Provide(newPreferenceRepository))
	must(c.Provide(preference.NewService))
	must(c.Provide(newAttendanceService))
	must(c.Provide(chartsvc.NewGoChartRenderer))
	must(c.Provide(newEmailTemplates))
	must(c.Provide(newEmailService))
	must(c.Provide(newDashboard))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
