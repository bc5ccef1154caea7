package main

import (
	"context"
	"flag"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/fyne-io/ttyl"
	"github.com/fyne-io/ttyl/internal/config"
	termwidget "github.com/fyne-io/ttyl/internal/widget"
)

const appTitle = "Terminal"

func setupListener(t *ttyl.Terminal, w fyne.Window) {
	listen := make(chan ttyl.Config)
	go func() {
		for {
			config := <-listen

			fyne.Do(func() {
				if config.Title == "" {
					w.SetTitle(appTitle)
				} else {
					w.SetTitle(appTitle + ": " + config.Title)
				}
			})
		}
	}()
	t.AddListener(listen)
}

func main() {
	var debug bool
	var configPath string
	flag.BoolVar(&debug, "debug", false, "Show terminal debug messages")
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Path to the settings file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fyne.LogError("Failed to load "+configPath+", using defaults", err)
		cfg = config.Default()
	}
	cfg.Debug = cfg.Debug || debug

	a := app.New()
	w, err := newTerminalWindow(a, cfg)
	if err != nil {
		fyne.LogError("Failed to create terminal", err)
		return
	}
	w.ShowAndRun()
}

func newTerminalWindow(a fyne.App, cfg *config.Config) (fyne.Window, error) {
	t, err := ttyl.New(cfg.Options()...)
	if err != nil {
		return nil, err
	}

	w := a.NewWindow(appTitle)
	w.SetPadded(false)

	grid := termwidget.NewTermGrid(t)
	t.OnUpdate(func(d ttyl.Delta) {
		snap := t.Snapshot()
		fyne.Do(func() {
			grid.Update(snap, d)
		})
	})
	setupListener(t, w)

	th := newTermTheme(t.Emulator().Resolve(ttyl.DefaultBackground))
	override := container.NewThemeOverride(grid, th)
	w.SetContent(override)
	w.Canvas().Focus(grid)

	grid.Update(t.Snapshot(), ttyl.Delta{})
	w.Resize(grid.MinSize())

	grid.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyV, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(_ fyne.Shortcut) {
			if err := t.Paste(a.Clipboard().Content()); err != nil {
				fyne.LogError("Failed to paste", err)
			}
		})
	grid.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyEqual, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(_ fyne.Shortcut) {
			th.fontSize++
			override.Refresh()
			w.Resize(grid.MinSize())
		})
	grid.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyMinus, Modifier: fyne.KeyModifierShortcutDefault},
		func(_ fyne.Shortcut) {
			th.fontSize--
			override.Refresh()
			w.Resize(grid.MinSize())
		})
	w.SetOnClosed(t.Exit)

	go func() {
		err := t.RunLocalShell(context.Background())
		if err != nil {
			fyne.LogError("Failure in terminal", err)
		}
		fyne.Do(w.Close)
	}()

	return w, nil
}
