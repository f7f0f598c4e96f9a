package main

import (
	"os"

	"github.com/calgapt/calgapt/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return
	}
	logrusLevel, err := log.ParseLevel(level)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(logrusLevel)
}

func main() {
	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
