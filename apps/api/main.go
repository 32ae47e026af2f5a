package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/services/objectstore"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

func main() {
	conf := core.Conf

	// set up loggers
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}
	logger.Enable(!conf.Debug)

	// set up DB
	sdb, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer sdb.Close()
	if err = database.Migrate(sdb); err != nil {
		logger.Fatal("migrating database", err)
	}
	db := sqlx.NewDb(sdb, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	var store core.FileStore
	if conf.ObjectStore.AccountID != "" {
		store, err = objectstore.NewB2Store(context.Background(), conf.ObjectStore)
		if err != nil {
			logger.Fatal("setting up object store", err)
		}
	} else {
		store = objectstore.NewInmemStore()
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	cntSvc := content.NewService(sqlxrepos.NewContentRepository(db))
	prgSvc := progress.NewService(sqlxrepos.NewProgressRepository(db), crsSvc, cntSvc, mailSvc)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// start API server
	server := echoapi.NewServer(&echoapi.Options{
		Address:     conf.Server.Address(),
		Logger:      logger,
		FileStore:   store,
		UserSvc:     usrSvc,
		CourseSvc:   crsSvc,
		ContentSvc:  cntSvc,
		ProgressSvc: prgSvc,
	})

	go server.Start()

	// shutdown
	select {
	case err = <-server.Errors():
		logger.Fatal("server error", err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error("could not stop server gracefully", err)
			if err = server.Close(); err != nil {
				logger.Fatal("could not force stop server", err)
			}
		}
	}
}
