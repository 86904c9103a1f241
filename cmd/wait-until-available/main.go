package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/addressbook/internal/config"
	"gitlab.com/dirk.krummacker/addressbook/internal/logger"
)

// Polls the REST API until it answers, e.g. before running smoke tests against a fresh container.
//
// Usage example on the command line:
// > PORT=8080 go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not read configuration:", err)
		os.Exit(1)
	}
	log, closer := logger.New(logger.Options(cfg.Log))
	defer closer.Close()
	url := fmt.Sprintf("http://localhost:%d/contacts", cfg.Port)

	totalWaitTime := 0
	for {
		res, err := http.Get(url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				log.Info("service is available", "url", url)
				break
			}
			log.Info("service is not ready", "url", url, "status", res.StatusCode)
		} else {
			log.Info("service is not reachable", "url", url, logger.Err(err))
		}
		totalWaitTime += 5
		log.Info("waiting", "seconds", totalWaitTime)
		time.Sleep(5 * time.Second)
	}
}
