package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/osu-collector-dl/internal/config"
	"github.com/handiism/osu-collector-dl/internal/download"
	"github.com/handiism/osu-collector-dl/internal/mirror"
)

func main() {
	// Command line flags
	var (
		configFlag      = flag.String("config", "config.toml", "Path to config file")
		idFlag          = flag.Int("id", 0, "osu!collector collection id (overrides config)")
		mirrorFlag      = flag.String("mirror", "", "Mirror to download from (overrides config)")
		songsFlag       = flag.String("songs", "", "osu! Songs folder (overrides config)")
		collectionFlag  = flag.String("collection-db", "", "Path to osu! collection.db (overrides config)")
		concurrencyFlag = flag.Int("concurrency", 0, "Concurrent downloads (overrides config)")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Fetch the collection and show what would be downloaded")
		listMirrorsFlag = flag.Bool("list-mirrors", false, "List supported mirrors and exit")
		initDBFlag      = flag.Bool("init-db", false, "Create an empty collection.db if none exists")
	)

	flag.Parse()

	if *listMirrorsFlag {
		for _, v := range mirror.Variants {
			fmt.Printf("%-12s %-16s %s\n", v.Name, v.DisplayName, v.BaseURL)
		}
		return
	}

	// Load config
	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *idFlag != 0 {
		settings.Collector.ID = *idFlag
	}
	if *mirrorFlag != "" {
		settings.User.MirrorType = *mirrorFlag
	}
	if *songsFlag != "" {
		settings.Osu.SongsPath = *songsFlag
	}
	if *collectionFlag != "" {
		settings.Osu.CollectionPath = *collectionFlag
	}
	if *concurrencyFlag != 0 {
		settings.User.ConcurrentDownloads = *concurrencyFlag
	}

	if settings.Collector.ID <= 0 {
		fmt.Println("osu!collector downloader - Download osu!collector collections")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  osu-collector-dl -id <collection id> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: osu-collector-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	lo := &slog.HandlerOptions{Level: slog.LevelWarn}
	if *verboseFlag {
		lo.Level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	onProgress := func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Println(prefix + event.Message)
	}

	session, err := download.Prepare(ctx, settings, download.PrepareOptions{InitDB: *initDBFlag}, log, onProgress)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nCancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(session.Banner())
	fmt.Printf("Collection %q via %s, %d at a time\n",
		session.CollectionName, session.Source.DisplayName(), settings.User.ConcurrentDownloads)
	fmt.Println()

	if *dryRunFlag {
		plan, err := session.Plan()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking %s: %v\n", settings.Osu.SongsPath, err)
			os.Exit(1)
		}
		for _, p := range plan.Beatmapsets {
			state := "fetch"
			if p.Present {
				state = "present"
			}
			fmt.Printf("  [%-7s] %d %s (%d beatmaps)\n", state, p.Beatmapset.ID, p.Beatmapset, len(p.Beatmapset.Beatmaps))
		}
		fmt.Printf("\n[Dry run] %d beatmapsets, %d beatmaps, %d already present, %d to fetch\n",
			len(plan.Beatmapsets), plan.Beatmaps, plan.Present, plan.Pending())
		return
	}

	summary, err := session.Run(ctx)
	fmt.Println()
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			fmt.Printf("Interrupted: %d/%d beatmaps done.\n", summary.Progress.Completed, summary.Progress.Target)
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(summary)
}
