package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/preference"
	appfs "github.com/trezcool/rollcall/fs"
	logsvc "github.com/trezcool/rollcall/services/logger"
	"github.com/trezcool/rollcall/storage/database"
	inmemdb "github.com/trezcool/rollcall/storage/database/inmem"
	sqlxrepos "github.com/trezcool/rollcall/storage/database/sqlx"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	l := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	l.Enable(!conf.Debug)
	logger = l

	// set up DB
	var db *sql.DB
	if conf.Database.Persistent() {
		var err error
		errAndDie(database.CreateIfNotExist(conf))
		db, err = database.Open(conf)
		errAndDie(err)
		defer db.Close()
	}

	// roster
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	f, err := appfs.OpenSeed(conf.Dashboard.SeedFile)
	errAndDie(err)
	seed, err := attendance.LoadSeed(f, validate)
	f.Close()
	errAndDie(err)
	memDB := inmemdb.Open(seed.Students...)

	prefRepo := inmemdb.NewPreferenceRepository(memDB)
	if db != nil {
		prefRepo = sqlxrepos.NewPreferenceRepository(database.OpenX(db, conf))
	}

	// start CLI
	cli := newCommandLine(
		db,
		preference.NewService(prefRepo),
		attendance.NewService(inmemdb.NewRosterRepository(memDB), conf.Dashboard.Location()),
		os.Stdout,
	)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
