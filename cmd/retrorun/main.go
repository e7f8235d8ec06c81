package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"
	"github.com/valerio/go-retrorun/retrorun/config"
	"github.com/valerio/go-retrorun/retrorun/debug"
	"github.com/valerio/go-retrorun/retrorun/engines/testpattern"
	"github.com/valerio/go-retrorun/retrorun/family"
	"github.com/valerio/go-retrorun/retrorun/input"
	"github.com/valerio/go-retrorun/retrorun/job"
	"github.com/valerio/go-retrorun/retrorun/logger"
	"github.com/valerio/go-retrorun/retrorun/pool"
	"github.com/valerio/go-retrorun/retrorun/registry"
	"github.com/valerio/go-retrorun/retrorun/render"
	"github.com/valerio/go-retrorun/retrorun/video"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		slog.Error("Error running job", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "retrorun"
	app.Description = "Run a short burst of emulated gameplay and collect the frames and the new state"
	app.Usage = "retrorun [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "family",
			Usage: "Engine family: " + strings.Join(familyNames(), ", "),
			Value: "gb",
		},
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "state",
			Usage: "Path to a prior state snapshot to resume from",
		},
		cli.StringFlag{
			Name:  "hash",
			Usage: "Precomputed content hash of the ROM (computed when empty)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run",
			Value: 60,
		},
		cli.StringFlag{
			Name:  "input",
			Usage: "Buttons held for the whole run, e.g. \"A,START,RIGHT\"",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Directory for state.bin and frame PNGs (nothing is written when empty)",
		},
		cli.StringFlag{
			Name:  "text",
			Usage: "Print the last rendered frame as text: blocks or shades",
		},
		cli.BoolFlag{
			Name:  "preview",
			Usage: "Play the frames back in the terminal",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "Worker threads (overrides RETRORUN_WORKERS)",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "Job time budget (overrides RETRORUN_JOB_TIMEOUT)",
		},
	}
	app.Action = runJob
	return app
}

func familyNames() []string {
	var names []string
	for _, f := range family.All() {
		names = append(names, f.String())
	}
	return names
}

// loaders binds every engine to the built-in test pattern engine.
func loaders() registry.Loaders {
	return registry.Loaders{
		family.EngineNES:  testpattern.Load,
		family.EngineSNES: testpattern.Load,
		family.EngineGB:   testpattern.Load,
	}
}

func runJob(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	if c.IsSet("workers") {
		cfg.Pool.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.Pool.JobTimeout = c.Duration("timeout")
	}
	if err := cfg.Pool.Validate(); err != nil {
		return err
	}
	textMode := c.String("text")
	if textMode != "" && textMode != "blocks" && textMode != "shades" {
		return fmt.Errorf("unknown --text mode %q", textMode)
	}

	req, err := buildRequest(c)
	if err != nil {
		return err
	}

	p := pool.New(cfg.Pool, loaders())
	p.Start()
	defer p.Close()

	start := time.Now()
	res, err := p.Submit(context.Background(), req)
	if err != nil {
		return err
	}

	slog.Info("Job completed",
		"family", req.Family,
		"frames", len(res.Frames),
		"blank_frames", res.BlankFrames(),
		"state_bytes", len(res.State),
		"hash", res.GameHash,
		"width", res.AVInfo.Geometry.BaseWidth,
		"height", res.AVInfo.Geometry.BaseHeight,
		"fps", res.AVInfo.Timing.FPS,
		"elapsed", time.Since(start))

	if out := c.String("out"); out != "" {
		if err := writeResult(res, out); err != nil {
			return err
		}
	}

	if textMode != "" {
		printLastFrame(c.App.Writer, res.Frames, textMode)
	}

	if c.Bool("preview") {
		player, err := render.NewTerminalPlayer(res.AVInfo.Timing.FPS)
		if err != nil {
			return err
		}
		defer player.Close()
		player.Play(res.Frames)
		if player.Stopped() {
			slog.Info("Preview closed by user")
		}
	}

	return nil
}

func buildRequest(c *cli.Context) (job.Request, error) {
	fam, err := family.Parse(c.String("family"))
	if err != nil {
		return job.Request{}, err
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return job.Request{}, errors.New("no ROM path provided")
		}
	}

	frames := c.Int("frames")
	if frames < 0 {
		return job.Request{}, errors.New("--frames must not be negative")
	}

	buttons, err := input.Parse(c.String("input"))
	if err != nil {
		return job.Request{}, err
	}

	game, err := os.ReadFile(romPath)
	if err != nil {
		return job.Request{}, err
	}
	slog.Debug("Loaded ROM", "path", romPath, "bytes", len(game))

	var state []byte
	if statePath := c.String("state"); statePath != "" {
		state, err = os.ReadFile(statePath)
		if err != nil {
			return job.Request{}, err
		}
	}

	return job.Request{
		Family:   fam,
		Input:    buttons,
		Frames:   frames,
		Game:     game,
		State:    state,
		GameHash: c.String("hash"),
	}, nil
}

// printLastFrame writes the most recent rendered frame as text.
func printLastFrame(w io.Writer, frames []video.Frame, mode string) {
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Blank() {
			continue
		}
		lines := render.RenderFrameToHalfBlocks(frames[i])
		if mode == "shades" {
			lines = render.RenderFrameToShades(frames[i])
		}
		fmt.Fprintf(w, "frame %d\n", i)
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		return
	}
	fmt.Fprintln(w, "no rendered frames")
}

func writeResult(res *job.Result, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}

	statePath := filepath.Join(dir, "state.bin")
	if err := os.WriteFile(statePath, res.State, 0644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "hash.txt"), []byte(res.GameHash+"\n"), 0644); err != nil {
		return err
	}

	if _, err := debug.SaveFramesToDir(res.Frames, "frame", dir); err != nil {
		return err
	}

	slog.Info("Saved result", "dir", dir, "state", statePath)
	return nil
}
