package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/osu-collector-dl/internal/config"
	"github.com/handiism/osu-collector-dl/internal/tui"
)

func main() {
	configFlag := flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	settings, err := config.Load(*configFlag)
	if err == nil {
		err = settings.ApplyEnv(os.LookupEnv)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings, *configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
