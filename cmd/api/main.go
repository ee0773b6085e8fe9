package main

import (
	"context"
	"fmt"
	"os"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/launchpad-labs/launchpad-backend/config"
	"github.com/launchpad-labs/launchpad-backend/internal/auth"
	"github.com/launchpad-labs/launchpad-backend/internal/bootstrap"
	"github.com/launchpad-labs/launchpad-backend/internal/logging"
	cronjob "github.com/launchpad-labs/launchpad-backend/internal/projects/cron"
	projectsrepo "github.com/launchpad-labs/launchpad-backend/internal/projects/repository"
)

const serviceName = "launchpad-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, &cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("failed to open redis")
	}
	defer rdb.Close()

	var authClient *fbauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.NewAuthClient(ctx, &cfg.Firebase)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize firebase")
		}
	} else if cfg.App.Environment == "development" {
		log.Warn("FIREBASE_CREDENTIALS_PATH not set, using header-based identity (development only)")
	} else {
		log.Fatal("FIREBASE_CREDENTIALS_PATH is required outside development")
	}

	sweeper := cronjob.NewSweeper(projectsrepo.NewProjectRepository(db), cfg.App.SweepInterval, log)
	sweeper.Start()
	defer sweeper.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Cfg:         cfg,
		Log:         log,
		DB:          db,
		Redis:       rdb,
		AuthClient:  authClient,
	})

	log.WithField("port", cfg.Server.Port).Info("server listening")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
