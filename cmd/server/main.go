package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/remotebingo/backend/internal/auth"
	"github.com/remotebingo/backend/internal/config"
	"github.com/remotebingo/backend/internal/seed"
	"github.com/remotebingo/backend/internal/server"
	"github.com/remotebingo/backend/internal/squeeze"
	"github.com/remotebingo/backend/internal/user"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithName("app"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	if err := run(lgr); err != nil {
		lgr.GetLogger("main").Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(lgr *glog.BaseLogger) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "invalid configuration")
	}

	if cfg.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg))
		fmt.Println("============")
	}

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	users := user.NewStore(db)
	squeezes := squeeze.NewStore(db)

	if err := seed.EnsureAdmin(ctx, users, lgr.GetLogger("seed")); err != nil {
		return err
	}

	signer := auth.NewSigner(
		auth.TokenConfig{
			Secret: []byte(cfg.Auth.AccessSecret),
			Expiry: cfg.Auth.AccessExpiry,
		},
		auth.TokenConfig{
			Secret: []byte(cfg.Auth.RefreshSecret),
			Expiry: cfg.Auth.RefreshExpiry,
		},
	).
		WithIssuer(cfg.Auth.Issuer).
		WithLogger(lgr.GetLogger("signer"))

	svc := auth.NewService(users, signer).
		WithLogger(lgr.GetLogger("auth"))

	srv := server.New(server.Options{
		Config: cfg,
		Signer: signer,
		Auth: auth.NewController(svc).
			WithLogger(lgr.GetLogger("auth:ctrl")),
		Squeeze: squeeze.NewController(squeezes).
			WithLogger(lgr.GetLogger("squeeze")),
		Users:  users,
		Logger: lgr.GetLogger("server"),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-exitSignal():
		lgr.GetLogger("main").Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []any{
		(*user.User)(nil),
		(*squeeze.Squeeze)(nil),
	} {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "sync schema")
		}
	}

	return db, nil
}

func exitSignal() <-chan os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return ch
}
