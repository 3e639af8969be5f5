package main

import (
	"log/slog"
	"os"

	"github.com/phanxgames/pressable/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	cli.Execute()
}
