package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account"
	accountrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/account/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/auth"
	authrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/auth/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime"
	crimerepo "github.com/ovaphlow/pitchfork/service-records-go/internal/crime/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel"
	personnelrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/region"
	regionrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/region/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/schema"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect"
	suspectrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-records-go")

	cfg := database.ConfigFromEnv()
	db, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := schema.EnsureTables(ctx, db); err != nil {
			sugar.Fatalf("ensure tables: %v", err)
		}
	}

	storage := media.NewStorage(media.ConfigFromEnv())
	accounts := account.NewService(accountrepo.NewAccountRepo(db), nil, storage, sugar)
	issuer, err := auth.NewService(auth.ConfigFromEnv(), accounts, authrepo.NewBlacklistRepo(db), sugar)
	if err != nil {
		sugar.Fatalf("init token issuer: %v", err)
	}
	crimes := crimerepo.NewCrimeRepo(db)
	suspects := suspectrepo.NewSuspectRepo(db)

	handler := router.RegisterRoutes(sugar, router.Services{
		Accounts:  accounts,
		Auth:      issuer,
		Regions:   region.NewService(regionrepo.NewRegionRepo(db), sugar),
		Personnel: personnel.NewService(personnelrepo.NewProfileRepo(db), storage, sugar),
		Crimes:    crime.NewService(crimes, suspects, storage, sugar),
		Suspects:  suspect.NewService(suspects, crimes, storage, sugar),
		Storage:   storage,
		MaxMemory: int64(utilities.EnvInt("UPLOAD_MAX_MEMORY", 10<<20)),
	})
	srv := &http.Server{
		Addr:              utilities.EnvString("HTTP_ADDR", "0.0.0.0:8431"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
