// Command roadedit is a live terminal viewer for road-ahead horizons.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/roadview/pkg/config"
	"github.com/ha1tch/roadview/pkg/horizon"
	"github.com/ha1tch/roadview/pkg/roadview"
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // Reloads, flash
	MsgWarning                    // Warnings, flash
)

// Flash pattern: four phases of flashPhaseMS, odd phases inverted.
const (
	flashPhaseMS  = 125
	flashPeriodMS = 4 * flashPhaseMS
)

// reloadEvent carries the files reported by the watcher.
type reloadEvent struct {
	changed []string
}

// Viewer holds all viewer state
type Viewer struct {
	screen      tcell.Screen
	view        *roadview.View
	horizonPath string
	configPath  string

	message           string
	messageType       MessageType
	messageFlashStart int64
}

// NewViewer returns a viewer with the default configuration and no
// horizon.
func NewViewer(horizonPath, configPath string) *Viewer {
	cfg := config.Default()
	return &Viewer{
		view:        roadview.NewView(roadview.NewPainter(roadview.DefaultPainterOptions()), cfg.Zoom(), cfg.AggregateOptions()),
		horizonPath: horizonPath,
		configPath:  configPath,
	}
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: roadedit <horizon.json|horizon.geojson>\n")
		os.Exit(1)
	}

	ed := NewViewer(os.Args[1], config.Path())
	if err := ed.reloadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", ed.configPath, err)
		os.Exit(1)
	}
	if err := ed.reloadHorizon(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", ed.horizonPath, err)
		os.Exit(1)
	}

	// stderr belongs to the screen
	if f, err := os.OpenFile(filepath.Join(filepath.Dir(ed.configPath), ".roadedit.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		defer f.Close()
		roadview.SetLogger(slog.New(slog.NewTextHandler(f, nil)))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.attach(screen)

	ctx, cancel := context.WithCancel(context.Background())
	if w, err := config.NewWatcher(ed.horizonPath, ed.configPath); err != nil {
		ed.showMessage("No live reload: "+err.Error(), MsgWarning)
	} else {
		defer w.Close()
		go w.Run(ctx, func(changed []string) {
			screen.PostEvent(tcell.NewEventInterrupt(reloadEvent{changed: changed}))
		})
	}

	ed.run()
	cancel()
	screen.Fini()
}

// attach binds the viewer to a screen; view changes post a redraw.
func (ed *Viewer) attach(screen tcell.Screen) {
	ed.screen = screen
	ed.view.SetRepaint(func() {
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
}

func (ed *Viewer) run() {
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if ed.flashing(time.Now().UnixMilli()) {
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		switch ev := ed.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			if r, ok := ev.Data().(reloadEvent); ok {
				ed.handleReload(r.changed)
			}
		}
	}
}

// handleKey reports whether the viewer should quit.
func (ed *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case '+', '=':
		ed.wheel(-1)
	case '-', '_':
		ed.wheel(1)
	case 'a', 'A':
		ed.toggleAutoZoom()
	case 'd', 'D':
		ed.toggleDebug()
	case 'r', 'R':
		ed.reloadAll()
	}
	return false
}

func (ed *Viewer) handleMouse(ev *tcell.EventMouse) {
	switch btn := ev.Buttons(); {
	case btn&tcell.WheelUp != 0:
		ed.wheel(-1)
	case btn&tcell.WheelDown != 0:
		ed.wheel(1)
	}
}

func (ed *Viewer) wheel(delta int) {
	if ed.view.Wheel(delta) {
		ed.clearMessage()
		return
	}
	if ed.view.Zoom().Auto {
		ed.showMessage("Auto zoom is on (a: manual)", MsgWarning)
		return
	}
	ed.showMessage("Zoom limit reached", MsgWarning)
}

func (ed *Viewer) toggleAutoZoom() {
	z := ed.view.Zoom()
	z.Auto = !z.Auto
	ed.view.SetZoom(z)
	if z.Auto {
		ed.showMessage("Auto zoom", MsgInfo)
	} else {
		ed.showMessage("Manual zoom", MsgInfo)
	}
}

func (ed *Viewer) toggleDebug() {
	opts := ed.view.Painter().Options()
	opts.Debug = !opts.Debug
	ed.view.SetPainter(roadview.NewPainter(opts))
	if opts.Debug {
		ed.showMessage("Debug labels on", MsgInfo)
	} else {
		ed.showMessage("Debug labels off", MsgInfo)
	}
}

func (ed *Viewer) handleReload(changed []string) {
	for _, p := range changed {
		var err error
		switch p {
		case ed.configPath:
			err = ed.reloadConfig()
		case ed.horizonPath:
			err = ed.reloadHorizon()
		default:
			continue
		}
		if err != nil {
			ed.showMessage(err.Error(), MsgError)
			return
		}
		ed.showMessage("Reloaded "+filepath.Base(p), MsgSuccess)
	}
}

func (ed *Viewer) reloadAll() {
	if err := ed.reloadConfig(); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if err := ed.reloadHorizon(); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.showMessage("Reloaded", MsgSuccess)
}

// reloadHorizon replaces the source; on error the previous view stays.
func (ed *Viewer) reloadHorizon() error {
	h, err := horizon.ReadFile(ed.horizonPath)
	if err != nil {
		return err
	}
	ed.view.SetSource(h)
	return nil
}

// reloadConfig applies the configuration, keeping the debug toggle and a
// manual zoom length.
func (ed *Viewer) reloadConfig() error {
	cfg, err := config.Load(ed.configPath)
	if err != nil {
		return err
	}
	opts, err := cfg.PainterOptions()
	if err != nil {
		return err
	}
	opts.Debug = opts.Debug || ed.view.Painter().Options().Debug

	z := cfg.Zoom()
	if cur := ed.view.Zoom(); !z.Auto && !cur.Auto && cur.LengthCM >= z.MinCM && cur.LengthCM <= z.MaxCM {
		z.LengthCM = cur.LengthCM
	}

	ed.view.SetPainter(roadview.NewPainter(opts))
	ed.view.SetAggregateOptions(cfg.AggregateOptions())
	ed.view.SetZoom(z)
	return nil
}

func (ed *Viewer) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (ed *Viewer) clearMessage() {
	ed.message = ""
	ed.messageFlashStart = 0
}

// flashing reports whether a message animation is running at now.
func (ed *Viewer) flashing(now int64) bool {
	if ed.message == "" || ed.messageFlashStart == 0 || !flashes(ed.messageType) {
		return false
	}
	elapsed := now - ed.messageFlashStart
	return elapsed >= 0 && elapsed < flashPeriodMS+200
}

// flashes reports whether messages of type t flash.
func flashes(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashPeriodMS {
		return false
	}
	return (elapsed/flashPhaseMS)%2 == 1
}
