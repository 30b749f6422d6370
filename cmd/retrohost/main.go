// Command retrohost plays a ROM with a libretro core library.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sqweek/dialog"
	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/host"
	"github.com/user-none/retrohost/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	corePath := flag.String("core", "", "Core library to load (default: resolved from config.json)")
	coreID := flag.String("core-id", "", "Core id for settings and input layout (default: derived from the library name)")
	dataDir := flag.String("data-dir", "retrohost", "Name of the application data directory")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: retrohost [options] [rom]\n\nRuns a ROM with a libretro core. Without a ROM a file picker is shown.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		return 2
	}

	storage.Init(*dataDir)
	if err := storage.EnsureDirectories(); err != nil {
		log.Printf("Error: %v", err)
		return 1
	}

	logger, closer, err := storage.OpenLog()
	if err != nil {
		log.Printf("Warning: file logging unavailable: %v", err)
		logger = log.Default()
	} else {
		defer closer.Close()
	}

	if err := storage.CreateConfigIfMissing(); err != nil {
		logger.Printf("Warning: failed to create config: %v", err)
	}
	cfg, err := storage.LoadConfig()
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	if problems := storage.ValidateConfig(cfg); len(problems) > 0 {
		for _, p := range problems {
			logger.Printf("Warning: config: %s", p)
		}
		cfg = storage.CorrectConfig(cfg)
	}

	rom := flag.Arg(0)
	if rom == "" {
		if rom, err = pickROM(); err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Printf("Error: %v", err)
				return 1
			}
			return 0
		}
	}

	err = host.Run(host.AppOptions{
		RomPath:  rom,
		CorePath: *corePath,
		CoreID:   *coreID,
		Config:   cfg,
		Log:      logger,
	})
	if err != nil {
		logger.Printf("Error: %v", err)
		switch {
		case errors.Is(err, frontend.ErrNoCorePath), errors.Is(err, frontend.ErrUnmappedExtension):
			logger.Printf("Set a core with -core or add it to the \"cores\" section of config.json")
		case frontend.IsLoadFailure(err):
			logger.Printf("The core library could not be loaded; check that it matches this platform")
		}
		return 1
	}
	return 0
}

func pickROM() (string, error) {
	return dialog.File().
		Title("Select ROM").
		Filter("ROM files", "sfc", "smc", "nes", "gba", "gb", "gbc", "zip", "7z", "rar", "gz").
		Filter("All files", "*").
		Load()
}
