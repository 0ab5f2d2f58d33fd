package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

var logOutput io.Writer = os.Stderr

func newLogger(output io.Writer) *slog.Logger {
	handler := tint.NewHandler(output, &tint.Options{
		Level:      slog.LevelInfo,
		AddSource:  false,
		TimeFormat: "2006-01-02 15:04:05.000Z07:00",
	})
	return slog.New(handler)
}
