package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/addressbook/internal/config"
	"gitlab.com/dirk.krummacker/addressbook/internal/logger"
	"gitlab.com/dirk.krummacker/addressbook/internal/storage"
	"gitlab.com/dirk.krummacker/addressbook/pkg/addressbook"
)

// Creates the database tables and copies an address book file into them. With -export, the
// direction is reversed and the database content is written to the file.
//
// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../addressbook.json
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, closer := logger.New(logger.Options(cfg.Log))
	code := run(cfg, log)
	closer.Close()
	os.Exit(code)
}

// run does the work of main and returns the exit code once its deferred calls are done.
func run(cfg *config.Config, log *slog.Logger) int {
	filePtr := flag.String("file", cfg.BookFile, "the address book file")
	exportPtr := flag.Bool("export", false, "write the database content to the file instead")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
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

	if *exportPtr {
		book, err := store.Load(ctx)
		if err != nil {
			log.Error("could not load address book from database", logger.Err(err))
			return 1
		}
		if err := book.WriteToFile(*filePtr); err != nil {
			log.Error("could not write address book", "file", *filePtr, logger.Err(err))
			return 1
		}
		log.Info("address book exported", "file", *filePtr, "contacts", book.Len())
		return 0
	}

	book, err := addressbook.ReadFromFile(*filePtr)
	if err != nil {
		log.Error("could not read address book", "file", *filePtr, logger.Err(err))
		return 1
	}
	if err := store.Save(ctx, book); err != nil {
		log.Error("could not save address book to database", logger.Err(err))
		return 1
	}
	log.Info("address book imported", "file", *filePtr, "contacts", book.Len())
	return 0
}
