package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/addressbook/internal/config"
	"gitlab.com/dirk.krummacker/addressbook/internal/logger"
	"gitlab.com/dirk.krummacker/addressbook/internal/service"
	"gitlab.com/dirk.krummacker/addressbook/internal/storage"
	"gitlab.com/dirk.krummacker/addressbook/pkg/addressbook"
)

// Usage example on the command line:
// > PORT=8080 BOOK_FILE=book.json GIN_MODE=release GIN_LOGGING=OFF go run main.go
//
// With a MySQL mirror:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not read configuration:", err)
		fmt.Fprintln(os.Stderr, config.Usage())
		os.Exit(1)
	}
	log, closer := logger.New(logger.Options(cfg.Log))
	code := run(cfg, log)
	closer.Close()
	os.Exit(code)
}

// run does the work of main and returns the exit code once its deferred calls are done.
func run(cfg *config.Config, log *slog.Logger) int {
	book, err := addressbook.ReadFromFile(cfg.BookFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("starting with an empty address book", "file", cfg.BookFile)
		book = addressbook.New()
	} else if err != nil {
		log.Error("could not read address book", "file", cfg.BookFile, logger.Err(err))
		return 1
	}
	log.Info("address book loaded", "file", cfg.BookFile, "contacts", book.Len())

	options := service.Options{
		BookFile:       cfg.BookFile,
		PageSize:       cfg.PageSize,
		RequestLogging: !strings.EqualFold(cfg.GinLogging, "off"),
		Logger:         log,
	}
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		dsn := storage.DSN(cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)
		store, err := storage.Open(ctx, dsn)
		if err != nil {
			log.Error("could not connect to database", logger.Err(err))
			return 1
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			log.Error("could not create tables", logger.Err(err))
			return 1
		}
		options.Mirror = store
		log.Info("mirroring address book to database", "host", cfg.Database.Host)
	}

	router := service.New(book, options).SetupHttpRouter()
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Error("server stopped", logger.Err(err))
		return 1
	}
	return 0
}
