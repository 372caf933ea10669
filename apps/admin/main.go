package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/user"
	emailsvc "github.com/nsscell/portal/services/email"
	"github.com/nsscell/portal/storage/database"
	sqlxrepos "github.com/nsscell/portal/storage/database/sqlx"
	"github.com/nsscell/portal/storage/session"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, emailsvc.NewConsoleService(conf), conf)

	sessions, err := session.NewFileStore(filepath.Join(conf.WorkDir, ".sessions"))
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:       db,
		usrRepo:  usrRepo,
		usrSvc:   usrSvc,
		sessions: sessions,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
