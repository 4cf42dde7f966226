package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plate-reader/config"
	"plate-reader/internal/container"
	"plate-reader/internal/domain/entity"
	"plate-reader/internal/logging"
)

func main() {
	out := flag.String("out", "", "directory for annotated images (overrides OUTPUT_DIR)")
	workers := flag.Int("workers", 0, "parallel recognitions (overrides WORKERS)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-out dir] [-workers n] image...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load config: %v", err)
	}
	if *out != "" {
		cfg.OutputDir = *out
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	logging.SetLevel(cfg.LogLevel)

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			logging.Fatalf("Failed to create output directory: %v", err)
		}
	}

	// Собираем конвейер и сервисы
	appContainer, err := container.New(cfg)
	if err != nil {
		logging.Fatalf("Failed to create container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	outcomes := appContainer.Recognition.RecognizeBatch(ctx, flag.Args())
	stop()

	failed := false
	for _, o := range outcomes {
		if o.Err != nil {
			logging.Errorf("job %s %s: %v", o.Job.ID, o.Job.Source, o.Err)
			failed = true
		}
		result := o.Result
		if result == nil {
			result = entity.NewFailedResult(entity.FormatTimestamp(time.Now()), entity.ReasonMalformedInput)
		}
		fmt.Printf("%s: %s\n", o.Job.Source, result)
	}

	if err := appContainer.Close(); err != nil {
		logging.Errorf("Failed to release resources: %v", err)
	}
	if failed {
		os.Exit(1)
	}
}
