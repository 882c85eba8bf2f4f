package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/esimov/stickr"
	"github.com/esimov/stickr/assets"
	"github.com/esimov/stickr/config"
	"github.com/esimov/stickr/utils"
)

const HelpBanner = `
┌─┐┌┬┐┬┌─┐┬┌─┬─┐
└─┐ │ ││  ├┴┐├┬┘
└─┘ ┴ ┴└─┘┴ ┴┴└─

Layered photo sticker composer.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source photo: file, directory, URL or - for stdin")
	destination = flag.String("out", pipeName, "Destination image or directory, - for stdout")
	censored    = flag.String("censored", "", "Destination of the censored variant (directory in batch mode)")
	scriptPath  = flag.String("script", "", "YAML edit script replayed on every photo")
	configPath  = flag.String("config", "", "YAML config file")
	assetsDir   = flag.String("assets", "", "Directory holding the sticker and filter images")
	catalogPath = flag.String("catalog", "", "YAML content catalog")
	unlockAll   = flag.Bool("unlock", false, "Unlock every premium and secret item")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of photos to process concurrently")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("Invalid configuration", err)
	}
	if *assetsDir != "" {
		cfg.Assets.Dir = *assetsDir
	}
	if *catalogPath != "" {
		cfg.Assets.Catalog = *catalogPath
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	logger := cfg.NewLogger(os.Stderr)

	a, err := newApp(cfg, logger, appOptions{scriptPath: *scriptPath, unlockAll: *unlockAll})
	if err != nil {
		fatal("Unable to start", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ STICKR", utils.StatusMessage),
		utils.DecorateText("⇢ composing...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*80, true)

	// Restore the cursor visibility on CTRL-C.
	go func() {
		<-ctx.Done()
		spinner.RestoreCursor()
	}()

	now := time.Now()
	failed := 0

	if isDir(*source) {
		if *destination == pipeName {
			fatal("Invalid destination", fmt.Errorf("a directory source needs a destination directory"))
		}
		results, errc, err := a.runBatch(ctx, *source, *destination, *censored, *workers)
		if err != nil {
			fatal("Batch failed", err)
		}
		spinner.Start()
		for res := range results {
			if res.err != nil {
				failed++
			}
			printStatus(res.path, res.err)
		}
		spinner.Stop()
		if err := <-errc; err != nil {
			fmt.Fprintln(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
			failed++
		}
	} else {
		for _, out := range []string{*destination, *censored} {
			if _, err := stickr.FormatFromPath(out); out != "" && err != nil {
				fatal("Invalid destination", err)
			}
		}
		if *destination != pipeName {
			spinner.Start()
		}
		err := a.process(ctx, job{in: *source, out: *destination, censored: *censored})
		spinner.Stop()
		if err != nil {
			failed++
		}
		printStatus(*destination, err)
	}

	if failed > 0 {
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

func isDir(path string) bool {
	if path == pipeName || assets.IsURL(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// printStatus displays the outcome of processing a single photo.
func printStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n%s %s\n",
			utils.DecorateText("Error composing "+filepath.Base(fname)+":", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
		return
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
	}
}

func fatal(msg string, err error) {
	log.Fatalf("%s %s",
		utils.DecorateText(msg+":", utils.ErrorMessage),
		utils.DecorateText(err.Error(), utils.DefaultMessage),
	)
}
