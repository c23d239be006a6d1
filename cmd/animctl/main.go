// animctl loads skeletal animation clips and plays scripted clip changes
// on a set of actors, reporting the root motion they produce.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-anim/internal/assets"
	"github.com/Faultbox/midgard-anim/internal/config"
	"github.com/Faultbox/midgard-anim/internal/game"
	"github.com/Faultbox/midgard-anim/internal/logger"
	"github.com/Faultbox/midgard-anim/pkg/formats"
	"github.com/Faultbox/midgard-anim/pkg/grf"
)

func main() {
	os.Exit(run())
}

// run dispatches the command and returns the process exit code. Deferred
// cleanup in the commands runs before main exits.
func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "run":
		return cmdRun()
	case "clips", "ls":
		return cmdClips()
	case "init":
		return cmdInit(args)
	case "inspect":
		return cmdInspect(args)
	case "pack":
		return cmdPack(args)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println(`animctl - skeletal animation clip player

Usage:
  animctl [flags] <command> [options]

Commands:
  run                              Play the configured script
  clips                            List configured clips
  init [path]                      Write the effective config (default: user config file)
  inspect <file>                   Show bones and keys of a model or clip file
  pack <out.grf> <file>...         Pack files into a GRF archive

Flags:
  -config <file>   Config file (default ./animctl.yaml)
  -debug           Debug logging
  -fps <n>         Simulation frames per second
  -duration <s>    Simulated seconds
  -actors <n>      Number of actors

Examples:
  animctl -config walk.yaml run
  animctl -debug -fps 60 run
  animctl -fps 60 -actors 3 init session.yaml
  animctl inspect data/model/npc.rsm
  animctl pack clips.grf clips/walk.yaml clips/idle.yaml`)
}

// setup loads the config and initializes logging. On failure it reports
// the error itself and returns nil.
func setup() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return nil
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return nil
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg
}

func cmdRun() int {
	cfg := setup()
	if cfg == nil {
		return 1
	}
	defer logger.Sync()

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to load session", zap.Error(err))
		return 1
	}
	defer g.Close()

	report, err := g.Run()
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		return 1
	}

	fmt.Printf("Frames: %d\n", report.Frames)
	fmt.Println()
	fmt.Printf("  %-6s %-16s %-28s %s\n", "ACTOR", "CLIP", "POSITION", "DISTANCE")
	for _, a := range report.Actors {
		pos := fmt.Sprintf("(%.3f, %.3f, %.3f)", a.Position.X, a.Position.Y, a.Position.Z)
		fmt.Printf("  %-6d %-16s %-28s %.3f\n", a.Index, a.Clip, pos, a.Distance)
	}
	return 0
}

func cmdClips() int {
	cfg := setup()
	if cfg == nil {
		return 1
	}
	defer logger.Sync()

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to load session", zap.Error(err))
		return 1
	}
	defer g.Close()

	reg := g.Registry()
	fmt.Printf("Skeleton: %s\n", strings.Join(reg.Skeleton(), " "))
	fmt.Printf("Clips:    %d\n", reg.Len())
	fmt.Println()
	for i := 0; i < reg.Len(); i++ {
		c := reg.Clip(i)
		fmt.Printf("  %-16s root=%-12s %v -> %v  %-28s x%.2f  %.2fs\n",
			c.Name, c.Root, c.StartOffset, c.EndOffset, c.Flags, c.Speed, c.Duration)
	}
	return 0
}

// cmdInit writes the effective config (defaults, then the config file,
// then flags) to a new file.
func cmdInit(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	path := config.UserConfigPath()
	if len(args) > 0 {
		path = args[0]
	}
	if err := cfg.Create(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %s\n", path)
	return 0
}

func cmdInspect(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: animctl inspect <file>")
		return 1
	}
	path := args[0]

	switch strings.ToLower(filepath.Ext(path)) {
	case ".rsm":
		rsm, err := formats.ParseRSMFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("RSM:      version %s, %d textures, animated: %v\n", rsm.Version, len(rsm.Textures), rsm.HasAnimation())
	case ".yaml", ".yml":
		doc, err := formats.ParseClipFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Clip:     %q, declared duration %.3fs\n", doc.Name, doc.Duration)
	}

	scene, err := assets.FileSource{Path: path}.Import()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer scene.Close()

	fmt.Printf("Name:     %s\n", scene.Name)
	fmt.Printf("Duration: %.3fs\n", scene.Duration)
	fmt.Printf("Bones:    %d\n", len(scene.Bones))
	fmt.Println()
	for _, b := range scene.Bones {
		parent := b.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Printf("  %-20s parent=%-20s rest=%v keys=%d\n", b.Name, parent, b.Rest, len(b.PosKeys))
	}
	return 0
}

func cmdPack(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: animctl pack <out.grf> <file>...")
		return 1
	}

	files := make(map[string][]byte, len(args)-1)
	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		files[filepath.ToSlash(filepath.Clean(path))] = data
	}

	out, err := os.Create(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := grf.WriteArchive(out, files); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Packed %d files into %s\n", len(files), args[0])
	return 0
}
