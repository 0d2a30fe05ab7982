package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/ting0602/trackchart/internal/chart"
	"github.com/ting0602/trackchart/internal/config"
	"github.com/ting0602/trackchart/internal/dataset"
	"github.com/ting0602/trackchart/internal/pipeline"
	"github.com/ting0602/trackchart/internal/source"
	"github.com/ting0602/trackchart/internal/tracklog"
	"github.com/ting0602/trackchart/internal/ui"
)

func init() {

	// Custom help message
	flag.Usage = func() {
		fmt.Printf("Usage: trackchart [options]\n\n")
		flag.PrintDefaults()
	}
}

// Version
const ver = "0.1.0"

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// signalHandler will handle SIGINT and SIGTERM in order to
// gracefully shutdown.
func signalHandler(cancel context.CancelFunc, sig os.Signal) {
	tracklog.Logger.Infof("Signal received: %v", sig)

	cancel()
	// The terminal settings might be in a state that messes up
	// future output. To be safe I reset them.
	if ui.Program != nil {
		ui.Program.Kill()
	}

	fmt.Fprintf(os.Stderr, "\r[!] %v! Quitting...\n", sig)
	os.Exit(1)
}

func main() {
	var (
		flConfig       = flag.String("config", "", "YAML configuration file.")
		flData         stringList
		flCacheDir     = flag.String("cache-dir", "", "Directory downloaded datasets are cached in.")
		flNoCache      = flag.Bool("no-cache", false, "Always download remote datasets.")
		flGroup        = flag.String("group", "", "Group bars by track_name, album_name or artists.")
		flSort         = flag.String("sort", "", "Sort direction: descending or ascending.")
		flPopularity   = flag.String("popularity", "", "Popularity filter range lo,hi (enables the filter).")
		flNoPopularity = flag.Bool("no-popularity", false, "Disable the popularity filter.")
		flRows         = flag.String("rows", "", "Row window lo,hi over the dataset (enables the filter).")
		flBarWidth     = flag.Int("bar-width", 0, "Cells per bar.")
		flPrint        = flag.Bool("print", false, "Print the chart as a table instead of starting the UI.")
		flExport       = flag.String("export", "", "Write the chart to this file.")
		flExportFormat = flag.String("export-format", "json", "Export format: json or csv.")
		flLogFile      = flag.String("log-file", "", "Log file path.")
		flLogLevel     = flag.String("log-level", "", "Log level (debug, info, warn, error).")
		flNoBanner     = flag.Bool("no-banner", false, "Do not show the trackchart banner.")
		flShowVersion  = flag.Bool("version", false, "Display version")
		flCpuProfile   = flag.String("cpuprofile", "", "Write CPU profile to disk for analysis.")
	)
	flag.Var(&flData, "data", "Dataset URL or CSV path. Repeat to merge several sources.")
	flag.Parse()

	if *flShowVersion {
		showVersion()
		os.Exit(0)
	}

	cfg := config.Default()
	if *flConfig != "" {
		loaded, err := config.Load(*flConfig)
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		cfg = loaded
	}

	// Command line values win over the configuration file.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "data":
			cfg.Data = flData
		case "cache-dir":
			cfg.CacheDir = *flCacheDir
		case "no-cache":
			cfg.NoCache = *flNoCache
		case "group":
			cfg.Grouping = *flGroup
		case "sort":
			cfg.Direction = *flSort
		case "popularity":
			cfg.Popularity.Enabled = true
			cfg.Popularity.Lower, cfg.Popularity.Upper, err = config.ParseRange(*flPopularity)
		case "no-popularity":
			cfg.Popularity.Enabled = !*flNoPopularity
		case "rows":
			cfg.Rows.Enabled = true
			cfg.Rows.Lower, cfg.Rows.Upper, err = config.ParseRange(*flRows)
		case "bar-width":
			cfg.BarWidth = *flBarWidth
		case "log-file":
			cfg.LogFile = *flLogFile
		case "log-level":
			cfg.LogLevel = *flLogLevel
		}
		if err != nil {
			flagErr = errors.Join(flagErr, fmt.Errorf("-%s: %w", f.Name, err))
		}
	})
	if flagErr != nil {
		fatal("Invalid flags", flagErr)
	}
	if err := cfg.Validate(); err != nil {
		fatal("Invalid configuration", err)
	}

	// Initialize logger
	if err := tracklog.Initialize(cfg.LogFile); err != nil {
		fatal("Failed to open log file", err)
	}
	if cfg.LogLevel != "" && (*flLogLevel != "" || os.Getenv("TRACKCHART_LOG_LEVEL") == "") {
		if err := tracklog.SetLevel(cfg.LogLevel); err != nil {
			tracklog.Logger.Warn(err)
		}
	}
	log := tracklog.WithSession()
	log.Info("Logger initialized")

	// Setup signal handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create a context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			sig := <-sigChan
			signalHandler(cancel, sig)
		}
	}()

	interactive := !*flPrint && term.IsTerminal(os.Stdout.Fd())
	if !*flNoBanner && interactive {
		showHeader()
	}

	// Enable CPU profiling
	if *flCpuProfile != "" {
		f, err := os.Create(*flCpuProfile)
		if err != nil {
			fatal("cpuprofile failed", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fatal("cpuprofile failed", err)
		}
		defer pprof.StopCPUProfile()
	}

	ds, err := load(ctx, cfg)
	if err != nil {
		log.Errorf("Load failed: %v", err)
		fatal("Failed to load dataset", err)
	}

	state := cfg.State()
	if *flExport != "" {
		if err := export(ds, state, *flExport, *flExportFormat); err != nil {
			log.Errorf("Export failed: %v", err)
			fatal("Export failed", err)
		}
	}

	if !interactive {
		if *flExport == "" || *flPrint {
			printChart(ds, state)
		}
		return
	}

	if err := ui.LaunchTUI(ds, state); err != nil {
		log.Errorf("UI failed: %v", err)
		fatal("Terminal UI failed", err)
	}
}

// load fetches every configured source and builds the dataset, showing progress
// with a spinner.
func load(ctx context.Context, cfg config.Config) (*dataset.Dataset, error) {
	cache, err := cfg.Cache()
	if err != nil {
		// A broken cache only costs a download.
		tracklog.Logger.Warnf("Cache disabled: %v", err)
		cache = nil
	}
	fetcher := source.NewFetcher(cache, cfg.FetchConcurrency, cfg.FetchTimeout)

	start := time.Now()
	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Fetching %d source(s)...", len(cfg.Data)))

	bodies, err := fetcher.Fetch(ctx, cfg.Data)
	if err != nil {
		spinner.Fail(err.Error())
		return nil, err
	}

	spinner.UpdateText("Parsing tracks...")
	ds, err := dataset.ReadAll(bodies)
	if err != nil {
		spinner.Fail(err.Error())
		return nil, err
	}
	spinner.Stop()

	finalInfo := "Loaded " + pterm.LightWhite(ds.Len()) + " tracks from " +
		pterm.LightWhite(ds.RowCount) + " rows in " + pterm.LightWhite(time.Since(start).Round(time.Millisecond))
	if ds.Skipped > 0 {
		finalInfo += " (" + strconv.Itoa(ds.Skipped) + " rows without track_id skipped)"
	}
	pterm.Success.Println(finalInfo)
	tracklog.Logger.Infof("Loaded %d tracks, %d rows, %d skipped", ds.Len(), ds.RowCount, ds.Skipped)
	return ds, nil
}

func export(ds *dataset.Dataset, s pipeline.State, path, format string) error {
	f, err := chart.ParseFormat(format)
	if err != nil {
		return err
	}
	res := pipeline.Run(ds.Records, s)
	if err := chart.Export(path, f, res, s); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %d bars to %s", len(res.Groups), path)
	return nil
}

// printChart writes the ordered bars as a table, for pipes and -print.
func printChart(ds *dataset.Dataset, s pipeline.State) {
	res := pipeline.Run(ds.Records, s)
	for _, l := range chart.Hint(res) {
		pterm.Warning.Println(l)
	}
	if res.Empty() {
		return
	}

	data := pterm.TableData{{"#", s.Grouping.Label(), "Tracks", "Avg Popularity"}}
	for i, g := range res.Groups {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			g.Key,
			strconv.Itoa(g.Count),
			strconv.FormatFloat(g.Rounded, 'f', 1, 64),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracklog.Logger.Errorf("Render table: %v", err)
	}
}

func fatal(msg string, err error) {
	pterm.Error.Println(msg + ": " + err.Error())
	os.Exit(1)
}

// showHeader prints colorful trackchart banner.
func showHeader() {

	fmt.Println("")

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("track", pterm.NewStyle(pterm.FgLightGreen)),
		putils.LettersFromStringWithStyle("chart", pterm.NewStyle(pterm.FgLightWhite))).
		Render()
}

func showVersion() {
	fmt.Printf("Version: %s\n\n", ver)
}
