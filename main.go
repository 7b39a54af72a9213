package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/integrii/flaggy"

	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/game"
	"github.com/pthm-cable/creatures/sim"
	"github.com/pthm-cable/creatures/tui"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	configPath     string
	headless       bool
	terminal       bool
	seed           uint64
	maxTicks       int
	outputDir      string
	logStats       bool
	statsWindow    float64
	stepsPerUpdate int
}

func main() {
	cli := parseFlags()

	// Initialize config before anything else
	if err := config.Init(cli.configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logFile, err := setupLogging(cli)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	opts := sim.Options{
		Seed:           cli.seed,
		LogStats:       cli.logStats,
		StatsWindowSec: cli.statsWindow,
		OutputDir:      cli.outputDir,
		StepsPerUpdate: cli.stepsPerUpdate,
	}

	switch {
	case cli.headless:
		err = runHeadless(cfg, opts, cli.maxTicks)
	case cli.terminal:
		err = runTerminal(cfg, opts, cli.maxTicks)
	default:
		err = runWindow(cfg, opts, cli.maxTicks)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() cliOptions {
	cli := cliOptions{stepsPerUpdate: 1}

	flaggy.SetName("creatures")
	flaggy.SetDescription("Evolving DNA-encoded creatures")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	flaggy.String(&cli.configPath, "c", "config", "Path to config.yaml (empty = use defaults)")
	flaggy.Bool(&cli.headless, "H", "headless", "Run without graphics")
	flaggy.Bool(&cli.terminal, "t", "tui", "Run in the terminal")
	flaggy.UInt64(&cli.seed, "s", "seed", "RNG seed (0 = time-based)")
	flaggy.Int(&cli.maxTicks, "m", "max-ticks", "Stop after N ticks (0 = unlimited)")
	flaggy.String(&cli.outputDir, "o", "output-dir", "Output directory for CSV logs and config snapshot")
	flaggy.Bool(&cli.logStats, "l", "log-stats", "Output stats via slog")
	flaggy.Float64(&cli.statsWindow, "w", "stats-window", "Stats window size in seconds (0 = use config)")
	flaggy.Int(&cli.stepsPerUpdate, "p", "steps-per-update", "Simulation ticks per update call (higher = faster headless runs)")

	flaggy.Parse()

	if cli.headless && cli.terminal {
		flaggy.ShowHelpAndExit("--headless and --tui are mutually exclusive")
	}
	return cli
}

// setupLogging installs the default slog handler. Terminal mode must not
// write to the screen, so it logs to run.log in the output directory or
// nowhere.
func setupLogging(cli cliOptions) (*os.File, error) {
	if !cli.terminal {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
		return nil, nil
	}

	if cli.outputDir == "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
		return nil, nil
	}

	if err := os.MkdirAll(cli.outputDir, 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(cli.outputDir, "run.log"))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, nil)))
	return f, nil
}

// runHeadless steps the simulation as fast as possible.
func runHeadless(cfg *config.Config, opts sim.Options, maxTicks int) error {
	r, err := sim.New(cfg, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	slog.Info("starting_headless_simulation",
		"seed", r.Seed(),
		"max_ticks", maxTicks,
		"steps_per_update", r.StepsPerUpdate(),
	)

	for {
		if err := r.Update(); err != nil {
			return err
		}

		if maxTicks > 0 && int(r.Tick()) >= maxTicks {
			slog.Info("max_ticks_reached", "tick", r.Tick(), "population", r.Population())
			return nil
		}
	}
}

// runTerminal hosts the simulation on a tcell screen.
func runTerminal(cfg *config.Config, opts sim.Options, maxTicks int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	r, err := sim.New(cfg, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	return tui.New(screen, r, cfg.Derived.StepDuration).Run(maxTicks)
}

// runWindow hosts the simulation in a raylib window.
func runWindow(cfg *config.Config, opts sim.Options, maxTicks int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Creatures")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	r, err := sim.New(cfg, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	g := game.New(cfg, r)
	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			return err
		}
		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
