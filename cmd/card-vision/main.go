package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/actions"
	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/config"
	"github.com/ironsheep/card-vision/internal/decision"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/logging"
	"github.com/ironsheep/card-vision/internal/metrics"
	"github.com/ironsheep/card-vision/internal/pipeline"
	"github.com/ironsheep/card-vision/internal/runner"
	"github.com/ironsheep/card-vision/internal/server"
	"github.com/ironsheep/card-vision/internal/templates"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("card-vision %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printHelp()
		return
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fatal(err)
	}
	if err := settings.Validate(); err != nil {
		fatal(err)
	}
	if err := logging.Init(settings.LogLevel); err != nil {
		fatal(err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd := os.Args[1]; cmd {
	case "scan":
		if len(os.Args) != 3 {
			fatal(errors.New("usage: card-vision scan <frame>"))
		}
		err = scan(settings, os.Args[2])
	case "watch":
		if len(os.Args) != 3 {
			fatal(errors.New("usage: card-vision watch <dir>"))
		}
		err = watch(ctx, settings, os.Args[2])
	case "overlay":
		if len(os.Args) != 4 {
			fatal(errors.New("usage: card-vision overlay <frame> <out.png>"))
		}
		err = overlay(settings, os.Args[2], os.Args[3])
	case "serve":
		err = serve(settings)
	case "http":
		err = serveHTTP(ctx, settings)
	default:
		printHelp()
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		logging.Sync()
		fatal(err)
	}
}

func printHelp() {
	fmt.Println("card-vision - read poker hands from table screenshots")
	fmt.Println()
	fmt.Println("Usage: card-vision <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scan <frame>     Recognize one frame and print the hand and decision")
	fmt.Println("  watch <dir>      Sample the newest frame dropped into dir and act on it")
	fmt.Println("  overlay <frame> <out.png>")
	fmt.Println("                   Draw the calibration and a coordinate grid onto a frame")
	fmt.Println("  serve            JSON-RPC tool server over stdin/stdout")
	fmt.Println("  http             HTTP API with Prometheus metrics")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Printf("  %-28s template root (default assets)\n", config.EnvAssets)
	fmt.Printf("  %-28s calibration YAML merged over the defaults\n", config.EnvCalibration)
	fmt.Printf("  %-28s watch sampling period (default 2s)\n", config.EnvSampleInterval)
	fmt.Printf("  %-28s HTTP listen address (default :8088)\n", config.EnvHTTPAddr)
	fmt.Printf("  %-28s debug, info, warn or error\n", config.EnvLogLevel)
	fmt.Printf("  %-28s reject matches scoring below this\n", config.EnvMinScore)
	fmt.Printf("  %-28s equity samples per decision (default 500)\n", config.EnvSimulations)
	fmt.Printf("  %-28s log clicks instead of performing them (default true)\n", config.EnvDryRun)
}

func fatal(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}

// app is the wiring shared by every command.
type app struct {
	settings *config.Settings
	cal      config.Calibration
	pipeline *pipeline.Pipeline
	engine   *decision.Engine
	metrics  *metrics.Recorder
	logger   *zap.Logger
}

func build(settings *config.Settings, rec *metrics.Recorder) (*app, error) {
	logger := logging.Log()

	cal := config.DefaultCalibration()
	if settings.Calibration != "" {
		var err error
		if cal, err = config.LoadCalibration(settings.Calibration); err != nil {
			return nil, err
		}
	}
	layout, err := cal.TemplateLayout()
	if err != nil {
		return nil, err
	}

	lib, err := templates.Load(settings.Assets, layout, logging.Named("templates"))
	if err != nil {
		return nil, err
	}
	if missing := lib.Missing(); len(missing) > 0 {
		logger.Warn("template library incomplete",
			zap.Int("loaded", lib.Len()),
			zap.Int("missing", len(missing)))
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logging.Named("pipeline")),
		pipeline.WithMetrics(rec),
	}
	if settings.HasMinScore {
		opts = append(opts, pipeline.WithMinScore(settings.MinScore))
	}
	if cal.Turn.Asset != "" {
		asset := cal.Turn.Asset
		if !filepath.IsAbs(asset) {
			asset = filepath.Join(settings.Assets, asset)
		}
		if marker, err := templates.LoadIndicator(asset); err != nil {
			logger.Warn("turn indicator unavailable, every frame counts as our turn", zap.Error(err))
		} else {
			opts = append(opts, pipeline.WithIndicator(marker))
		}
	}

	engine := decision.NewEngine(
		decision.WithLogger(logging.Named("decision")),
		decision.WithMetrics(rec),
		decision.WithSimulations(settings.Simulations),
	)

	return &app{
		settings: settings,
		cal:      cal,
		pipeline: pipeline.New(lib, cal, opts...),
		engine:   engine,
		metrics:  rec,
		logger:   logger,
	}, nil
}

func scan(settings *config.Settings, path string) error {
	a, err := build(settings, nil)
	if err != nil {
		return err
	}
	frame, err := imaging.Open(path)
	if err != nil {
		return err
	}

	score, ourTurn := a.pipeline.IsOurTurn(frame)
	res := a.pipeline.Recognize(frame)
	d := a.engine.Decide(res.Hand)

	rows := pterm.TableData{{"Source", "Cards"}}
	rows = append(rows, []string{"hole", cardList(res.Hand.HoleCards)})
	rows = append(rows, []string{"board", cardList(res.Hand.Community)})
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	if a.pipeline.HasIndicator() {
		pterm.Info.Printfln("Turn indicator %.3f (our turn: %v)", score, ourTurn)
	}
	pterm.Info.Printfln("Street: %s, recognized in %s", decision.StreetOf(len(res.Hand.Community)), res.Duration.Round(time.Millisecond))
	pterm.DefaultBox.WithTitle(pterm.LightYellow("|DECISION|")).WithTitleTopCenter().Println(d.String())
	return nil
}

func cardList(cs []cards.Card) string {
	if len(cs) == 0 {
		return pterm.Gray("-")
	}
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += " "
		}
		label := c.Label()
		if c.Suit == cards.Heart || c.Suit == cards.Diamond {
			label = pterm.LightRed(label)
		}
		out += label
	}
	return out
}

func watch(ctx context.Context, settings *config.Settings, dir string) error {
	if !settings.DryRun {
		return fmt.Errorf("live clicking is not supported; set %s=true", config.EnvDryRun)
	}
	a, err := build(settings, nil)
	if err != nil {
		return err
	}
	if err := a.cal.Buttons.Validate(); err != nil {
		return err
	}

	exec := actions.NewExecutor(actions.NewDryRunClicker(logging.Named("clicker")), a.cal.Buttons, logging.Named("actions"))
	r := runner.New(dir, a.pipeline, a.engine,
		runner.WithInterval(settings.SampleInterval),
		runner.WithExecutor(exec),
		runner.WithLogger(logging.Named("runner")),
		runner.WithOutcomes(func(o runner.Outcome) {
			if o.Err != nil || !o.OurTurn {
				return
			}
			pterm.Info.Printfln("%s  hole %s  board %s  -> %s",
				filepath.Base(o.Path),
				cardList(o.Result.Hand.HoleCards),
				cardList(o.Result.Hand.Community),
				o.Decision)
		}),
	)
	return r.Run(ctx)
}

func overlay(settings *config.Settings, path, out string) error {
	a, err := build(settings, nil)
	if err != nil {
		return err
	}
	frame, err := imaging.Open(path)
	if err != nil {
		return err
	}
	if err := imaging.SavePNG(out, a.pipeline.Overlay(frame, server.DefaultGridSpacing)); err != nil {
		return err
	}
	pterm.Success.Printfln("Overlay written to %s", out)
	return nil
}

func serve(settings *config.Settings) error {
	a, err := build(settings, nil)
	if err != nil {
		return err
	}
	a.logger.Info("tool server starting", zap.String("version", Version))
	return server.New(a.pipeline, a.engine, logging.Named("server")).Run()
}

func serveHTTP(ctx context.Context, settings *config.Settings) error {
	rec := metrics.New()
	a, err := build(settings, rec)
	if err != nil {
		return err
	}

	if settings.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           server.New(a.pipeline, a.engine, logging.Named("http")).Router(rec),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http api listening", zap.String("addr", settings.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
