package main

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("flatpackctl")

var stderrFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.5s} ▶ %{message}`,
)

func setupLogging(defaultLevel logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(stderrFormat)
	leveled := logging.AddModuleLevel(backend)
	switch os.Getenv("FLATPACK_LOG_LEVEL") {
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLevel, "")
	}
	logging.SetBackend(leveled)
}
