// Command dmgo runs the emulator: dmgo [options] <rom-file>
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/tomassirio/dmgo/emu"
	"github.com/tomassirio/dmgo/emu/backend"
	"github.com/tomassirio/dmgo/emu/backend/headless"
	"github.com/tomassirio/dmgo/emu/backend/sdl2"
	"github.com/tomassirio/dmgo/emu/backend/terminal"
	"github.com/tomassirio/dmgo/emu/memory"
	"github.com/tomassirio/dmgo/emu/timing"
)

// actionKeys maps backend input actions to joypad buttons.
var actionKeys = map[backend.Action]memory.JoypadKey{
	backend.ActionRight:  memory.JoypadRight,
	backend.ActionLeft:   memory.JoypadLeft,
	backend.ActionUp:     memory.JoypadUp,
	backend.ActionDown:   memory.JoypadDown,
	backend.ActionA:      memory.JoypadA,
	backend.ActionB:      memory.JoypadB,
	backend.ActionSelect: memory.JoypadSelect,
	backend.ActionStart:  memory.JoypadStart,
}

func main() {
	app := cli.NewApp()
	app.Name = "dmgo"
	app.Usage = "a DMG Game Boy emulator"
	app.ArgsUsage = "<rom-file>"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "backend, b",
			Value: "terminal",
			Usage: "display backend: terminal, sdl2, headless",
		},
		cli.IntFlag{
			Name:  "frames, n",
			Usage: "stop after this many frames (headless)",
		},
		cli.IntFlag{
			Name:  "scale, s",
			Value: 3,
			Usage: "window scale factor (sdl2)",
		},
		cli.BoolFlag{
			Name:  "no-limit",
			Usage: "run as fast as possible instead of pacing to ~60 Hz",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "dmgo:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("expected exactly one ROM file argument", 2)
	}

	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	machine, err := emu.NewFromFile(c.Args().First())
	if err != nil {
		return err
	}
	defer machine.Close()

	var display backend.Backend
	switch name := c.String("backend"); name {
	case "terminal":
		display = terminal.New()
	case "sdl2":
		display = sdl2.New()
	case "headless":
		display = headless.New(c.Int("frames"))
	default:
		return fmt.Errorf("unknown backend %q", name)
	}

	config := backend.Config{
		Title: "dmgo - " + machine.Bus().Cartridge().Title(),
		Scale: c.Int("scale"),
	}
	if err := display.Init(config); err != nil {
		return err
	}
	defer display.Close()

	limiter := timing.NewFrameLimiter()
	if c.Bool("no-limit") || c.String("backend") == "headless" {
		limiter = timing.NewNoOpLimiter()
	}

	for {
		if err := machine.RunFrame(); err != nil {
			return err
		}

		events, err := display.Update(machine.FrameBuffer())
		if err != nil {
			return err
		}
		for _, event := range events {
			if event.Action == backend.ActionQuit {
				slog.Info("shutting down", "frames", machine.Frames())
				return nil
			}
			key, ok := actionKeys[event.Action]
			if !ok {
				continue
			}
			if event.Type == backend.Press {
				machine.HandleKeyPress(key)
			} else {
				machine.HandleKeyRelease(key)
			}
		}

		limiter.WaitForNextFrame()
	}
}
