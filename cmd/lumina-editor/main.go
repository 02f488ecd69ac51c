// Command lumina-editor opens the Lumina editor shell: the docking UI with
// the built-in panels, a persisted layout and optional hot reload.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lumina-engine/lumina"
	"github.com/lumina-engine/lumina/ecs"
	"github.com/urfave/cli/v3"
	"github.com/yohamta/donburi"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "lumina-editor: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Output of informational commands goes to
// out.
func newApp(out io.Writer) *cli.Command {
	var (
		cfg      EditorConfig
		closeLog func() error
	)
	layoutFlag := &cli.StringFlag{Name: "layout", Aliases: []string{"l"}, Usage: "layout file (overrides config)"}

	return &cli.Command{
		Name:    "lumina-editor",
		Usage:   "dockable editor shell",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "lumina.toml", Usage: "config file"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "write logs to a rotating file"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var err error
			cfg, err = LoadConfig(cmd.String("config"))
			if err != nil {
				return ctx, err
			}
			if lvl := cmd.String("log-level"); lvl != "" {
				cfg.Logging.Level = lvl
			}
			if file := cmd.String("log-file"); file != "" {
				cfg.Logging.File = file
			}
			closeLog, err = initLogging(cfg.Logging, version)
			return ctx, err
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runEditor(cfg, "", false)
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "open the editor window",
				Flags: []cli.Flag{
					layoutFlag,
					&cli.StringFlag{Name: "script", Usage: "JSON input script to play back"},
					&cli.BoolFlag{Name: "debug", Usage: "log per-frame stats"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if p := cmd.String("layout"); p != "" {
						cfg.Layout.Path = p
					}
					return runEditor(cfg, cmd.String("script"), cmd.Bool("debug"))
				},
			},
			{
				Name:  "layout",
				Usage: "inspect or reset the saved layout",
				Commands: []*cli.Command{
					{
						Name:  "dump",
						Usage: "print the layout tree",
						Flags: []cli.Flag{layoutFlag},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							if p := cmd.String("layout"); p != "" {
								cfg.Layout.Path = p
							}
							return dumpLayout(cmd.Root().Writer, cfg)
						},
					},
					{
						Name:  "reset",
						Usage: "overwrite the layout file with the default layout",
						Flags: []cli.Flag{layoutFlag},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							if p := cmd.String("layout"); p != "" {
								cfg.Layout.Path = p
							}
							return resetLayout(cmd.Root().Writer, cfg)
						},
					},
				},
			},
			{
				Name:  "init",
				Usage: "write a default config file",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.String("config")
					if _, err := os.Stat(path); err == nil {
						return cli.Exit(fmt.Sprintf("%s already exists", path), 1)
					}
					if err := SaveConfig(path, DefaultConfig()); err != nil {
						return err
					}
					fmt.Fprintf(cmd.Root().Writer, "wrote %s\n", path)
					return nil
				},
			},
		},
	}
}

// editor wires the framework, docking manager, ECS world and built-in
// panels together.
type editor struct {
	cfg    EditorConfig
	f      *lumina.Framework
	dock   *lumina.DockingManager
	world  donburi.World
	titles map[lumina.PanelID]string
}

func newEditor(cfg EditorConfig) (*editor, error) {
	theme, err := cfg.ResolvedTheme()
	if err != nil {
		slog.Warn("theme overrides ignored", "err", err)
	}

	e := &editor{
		cfg:    cfg,
		f:      lumina.NewFramework(),
		dock:   lumina.NewDockingManager(),
		world:  donburi.NewWorld(),
		titles: make(map[lumina.PanelID]string),
	}
	store := ecs.NewDonburiStore(e.world)
	e.f.SetEventStore(store)
	e.dock.SetEventStore(store)
	e.dock.SetConfig(cfg.DockConfig())
	e.dock.SetTheme(theme)
	e.f.Input().SetDragDeadZone(cfg.DockConfig().DragDeadZone)

	scene := newScenePanel(theme)
	hierarchy := newHierarchyPanel(theme, e.dock)
	inspector := newInspectorPanel(theme, e.f)
	console := newConsolePanel(theme, e.world)
	for _, p := range []lumina.Panel{scene, hierarchy, inspector, console} {
		e.dock.AddPanel(p)
		e.titles[p.ID()] = p.Title()
	}
	if err := defaultLayout(e.dock, scene.ID(), hierarchy.ID(), inspector.ID(), console.ID()); err != nil {
		return nil, err
	}
	if err := e.f.AddRoot(e.dock); err != nil {
		return nil, err
	}
	e.f.OnUpdate(func(float32) { ecs.UIEventType.ProcessEvents(e.world) })
	return e, nil
}

// loadLayout replaces the default layout with the saved one when the file
// exists.
func (e *editor) loadLayout() error {
	err := e.dock.LoadLayoutFile(e.cfg.Layout.Path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no saved layout, using default", "path", e.cfg.Layout.Path)
		return nil
	}
	return err
}

func runEditor(cfg EditorConfig, scriptPath string, debug bool) error {
	e, err := newEditor(cfg)
	if err != nil {
		return err
	}
	if err := e.loadLayout(); err != nil {
		slog.Warn("saved layout ignored", "path", cfg.Layout.Path, "err", err)
	}
	e.f.SetDebugMode(debug)

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := lumina.LoadScript(data)
		if err != nil {
			return err
		}
		e.f.SetScriptRunner(runner)
	}

	var watcher *lumina.LayoutWatcher
	if cfg.Layout.Watch {
		watcher, err = lumina.WatchLayout(cfg.Layout.Path)
		if err != nil {
			slog.Warn("layout hot reload disabled", "err", err)
		} else {
			defer watcher.Close()
			e.f.OnUpdate(func(float32) {
				if changed, err := watcher.Poll(e.dock); err != nil {
					slog.Warn("layout reload failed", "err", err)
				} else if changed {
					slog.Info("layout reloaded", "path", watcher.Path())
				}
			})
		}
	}

	slog.Info("editor starting", "layout", cfg.Layout.Path, "panels", len(e.titles))
	runErr := lumina.Run(e.f, lumina.RunConfig{
		Title:         cfg.Window.Title,
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Resizable:     cfg.Window.Resizable,
		ShowFPS:       cfg.Window.ShowFPS,
		ScreenshotDir: cfg.Window.ScreenshotDir,
	})

	if cfg.Layout.SaveOnExit {
		if watcher != nil {
			err = watcher.Save(e.dock)
		} else {
			err = e.dock.SaveLayoutFile(cfg.Layout.Path)
		}
		if err != nil {
			slog.Error("save layout", "path", cfg.Layout.Path, "err", err)
		}
	}
	return runErr
}

func dumpLayout(out io.Writer, cfg EditorConfig) error {
	e, err := newEditor(cfg)
	if err != nil {
		return err
	}
	if err := e.dock.LoadLayoutFile(cfg.Layout.Path); err != nil {
		return err
	}
	_, err = io.WriteString(out, dumpTree(e.dock.Root(), e.titles))
	return err
}

func resetLayout(out io.Writer, cfg EditorConfig) error {
	e, err := newEditor(cfg)
	if err != nil {
		return err
	}
	if err := e.dock.SaveLayoutFile(cfg.Layout.Path); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote default layout to %s\n", cfg.Layout.Path)
	return nil
}
