// Package main provides the CLI entry point for framecheck.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framecheck/pkg/adapters/audioprobe"
	"github.com/user/framecheck/pkg/adapters/eventloop"
	"github.com/user/framecheck/pkg/adapters/filesink"
	"github.com/user/framecheck/pkg/adapters/ggrenderer"
	"github.com/user/framecheck/pkg/adapters/logger"
	"github.com/user/framecheck/pkg/adapters/nullsink"
	"github.com/user/framecheck/pkg/adapters/osfilesystem"
	"github.com/user/framecheck/pkg/adapters/seqwatch"
	"github.com/user/framecheck/pkg/adapters/smartdecoder"
	"github.com/user/framecheck/pkg/capture"
	"github.com/user/framecheck/pkg/config"
	"github.com/user/framecheck/pkg/playback"
	"github.com/user/framecheck/pkg/ports"
	"github.com/user/framecheck/pkg/summarizer"
	"github.com/user/framecheck/pkg/surface"
	"github.com/user/framecheck/pkg/viewer"
)

var version = "dev"

// idleTimeout ends a headless run once nothing has played for this long.
const idleTimeout = 500 * time.Millisecond

func main() {
	app := &cli.App{
		Name:    "framecheck",
		Usage:   l10n.T("Review video clips, stills and image sequences frame by frame"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    l10n.T("Configuration file (YAML or TOML)"),
				Category: l10n.T("Configuration"),
			},
			&cli.StringFlag{
				Name:     "log-level",
				Aliases:  []string{"l"},
				Usage:    l10n.T("Log level (debug, info, warn, error)"),
				Category: l10n.T("Logging"),
			},
			&cli.StringFlag{
				Name:     "log-format",
				Usage:    l10n.T("Log format (console, json)"),
				Category: l10n.T("Logging"),
			},
			&cli.BoolFlag{
				Name:     "quiet",
				Aliases:  []string{"q"},
				Usage:    l10n.T("Suppress all log output"),
				Category: l10n.T("Logging"),
			},
		},
		Commands: []*cli.Command{
			probeCommand(),
			playCommand(),
			compareCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Println(l10n.F("framecheck version %s", version))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Print a media report for a path"),
		ArgsUsage: "PATH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    l10n.T("Write the report to a file"),
				Category: l10n.T("Output"),
			},
			&cli.StringFlag{
				Name:     "format",
				Aliases:  []string{"f"},
				Value:    "markdown",
				Usage:    l10n.T("Report format (markdown, yaml)"),
				Category: l10n.T("Output"),
			},
		},
		Action: runProbe,
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     l10n.T("Play media headlessly through the viewer"),
		ArgsUsage: "PATH",
		Flags:     playFlags(true),
		Action:    runPlay,
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     l10n.T("Play two media paths side by side"),
		ArgsUsage: "PATH_A PATH_B",
		Flags:     playFlags(false),
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return cli.Exit(l10n.T("Two media arguments are required"), 2)
			}
			return play(c, c.Args().Get(0), c.Args().Get(1))
		},
	}
}

func playFlags(withCompare bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "mode",
			Aliases:  []string{"m"},
			Usage:    l10n.T("Playback mode (loop, next, once)"),
			Category: l10n.T("Playback"),
		},
		&cli.IntFlag{
			Name:     "max-frames",
			Aliases:  []string{"n"},
			Usage:    l10n.T("Stop after presenting this many frames (0 = until playback ends)"),
			Category: l10n.T("Playback"),
		},
		&cli.StringFlag{
			Name:     "dump",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Directory to write presented frames to"),
			Category: l10n.T("Output"),
		},
	}
	if withCompare {
		flags = append(flags, &cli.StringFlag{
			Name:     "compare",
			Usage:    l10n.T("Second path to compare against"),
			Category: l10n.T("Playback"),
		})
	}
	return flags
}

// env holds the adapters shared by every command.
type env struct {
	cfg      config.Config
	log      ports.Logger
	fs       *osfilesystem.FileSystem
	renderer *ggrenderer.Renderer
	decoder  *smartdecoder.Decoder
	audio    *audioprobe.Prober
}

func setup(c *cli.Context) (*env, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var log ports.Logger
	switch {
	case c.Bool("quiet"):
		log = logger.NewNoop()
	case cfg.LogFormat == "json":
		log = logger.NewJSON(ports.ParseLogLevel(cfg.LogLevel), os.Stderr)
	default:
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	return &env{
		cfg:      cfg,
		log:      log,
		fs:       osfilesystem.New(),
		renderer: ggrenderer.New(),
		decoder: smartdecoder.New(smartdecoder.Options{
			FFmpegPath:  cfg.FFmpegPath,
			FFprobePath: cfg.FFprobePath,
		}, log),
		audio: audioprobe.New(),
	}, nil
}

func (rt *env) opener() *capture.Opener {
	return capture.NewOpener(rt.fs, rt.decoder, rt.renderer, rt.audio, capture.Options{
		SequenceFPS:       rt.cfg.DefaultSequenceFPS,
		PlaceholderWidth:  rt.cfg.PlaceholderWidth,
		PlaceholderHeight: rt.cfg.PlaceholderHeight,
	}, rt.log)
}

func runProbe(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit(l10n.T("A media argument is required"), 2)
	}
	rt, err := setup(c)
	if err != nil {
		return err
	}

	in := &summarizer.Inspector{Opener: rt.opener(), Video: rt.decoder, Audio: rt.audio}
	s, err := in.Inspect(c.Args().First())
	if err != nil {
		return err
	}

	formatter, err := summarizer.FormatterFor(c.String("format"),
		summarizer.WithTranslator(func(key string) string { return l10n.T(key) }),
		summarizer.WithVersion(version),
	)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if out := c.String("output"); out != "" {
		if err := summarizer.NewWriter(formatter, rt.fs).Write(out, s); err != nil {
			return err
		}
		rt.log.Info("Report saved to %s", out)
		return nil
	}
	fmt.Print(formatter.Format(s))
	return nil
}

func runPlay(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit(l10n.T("A media argument is required"), 2)
	}
	return play(c, c.Args().First(), c.String("compare"))
}

func play(c *cli.Context, pathA, pathB string) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	mode := rt.cfg.Mode()
	if c.IsSet("mode") {
		if mode, err = playback.ParseMode(c.String("mode")); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			rt.log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	loop := eventloop.New(rt.log)

	var sink ports.FrameSink = nullsink.New()
	if dir := c.String("dump"); dir != "" {
		if err := rt.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create dump directory: %w", err)
		}
		sink = filesink.New(dir, rt.fs, rt.renderer)
	}

	var watcher viewer.SequenceWatcher
	if rt.cfg.WatchSequences {
		w, err := seqwatch.New(loop, rt.log)
		if err != nil {
			rt.log.Warn("Sequence watching disabled: %v", err)
		} else {
			defer w.Close()
			watcher = w
		}
	}

	opts := viewer.DefaultOptions()
	opts.InitialMode = mode
	opts.ResumeDelay = rt.cfg.ResumeDelay()
	opts.SurfaceWidth = rt.cfg.SurfaceWidth
	opts.SurfaceHeight = rt.cfg.SurfaceHeight
	opts.SurfaceBackground = config.ParseColor(rt.cfg.SurfaceBackground)
	opts.Placeholders = surface.Placeholders{
		Renderer:   rt.renderer,
		Background: config.ParseColor(rt.cfg.PlaceholderBackground),
	}
	opts.PlaceholderWidth = rt.cfg.PlaceholderWidth
	opts.PlaceholderHeight = rt.cfg.PlaceholderHeight
	opts.CompareFallback = rt.cfg.CompareFallbackFPS
	opts.TickFallback = rt.cfg.TickFallback()
	opts.WatchSequences = rt.cfg.WatchSequences

	v := viewer.New(rt.opener(), rt.renderer, loop, rt.fs, watcher, sink, rt.log, opts)
	maxFrames := c.Int("max-frames")

	var result error
	loop.Post(func() {
		if !v.OpenFiles([]string{pathA}) {
			result = fmt.Errorf("%s: %s", v.StatusText(), pathA)
			cancel()
			return
		}
		if pathB != "" && !v.LoadB(pathB) {
			result = fmt.Errorf("%s: %s", v.StatusText(), pathB)
			cancel()
			return
		}
		v.TogglePlay()
		rt.log.Info("Playing %s", v.Describe())
	})

	var idle time.Duration
	const poll = 50 * time.Millisecond
	loop.Every(poll, func() {
		if maxFrames > 0 && v.Presented() >= maxFrames {
			cancel()
			return
		}
		if v.IsPlaying() {
			idle = 0
			return
		}
		idle += poll
		if idle >= idleTimeout+opts.ResumeDelay {
			cancel()
		}
	})

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	v.Close()
	if result != nil {
		return result
	}
	rt.log.Info("Presented %d frames (%s)", v.Presented(), v.Describe())
	return nil
}
