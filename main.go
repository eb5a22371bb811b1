package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-pedalctl/config"
	"go-pedalctl/control"
	"go-pedalctl/debug"
	"go-pedalctl/midi"
	"go-pedalctl/pedal"
	"go-pedalctl/theme"
	"go-pedalctl/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-pedalctl/config.json)")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/go-pedalctl/debug.log")
	paletteFile := flag.String("palette", "", "GIMP .gpl palette to use instead of the built-in one")
	rate := flag.Int("rate", 0, "control rate in Hz (overrides the config)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *debugLog || cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
		}
		defer debug.Disable()
	}

	palette := theme.Default()
	if *paletteFile != "" {
		palette, err = theme.LoadGPL(*paletteFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading palette: %v\n", err)
			os.Exit(1)
		}
	}
	th := theme.New(palette)

	tickRate := cfg.Engine.TickRateHz
	if *rate > 0 {
		tickRate = *rate
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MIDI port manager (handles hot-plug)
	ports := midi.NewPortManager()
	ports.Watch(cfg.Footswitch.PortName)
	go ports.Run(ctx)

	manager := pedal.NewManager(ports, control.SystemClock{}, tickRate)
	if err := manager.Load(cfg); err != nil {
		// ports that aren't plugged in yet get bound on hot-plug
		debug.Log("main", "load: %v", err)
	}
	go manager.Run(ctx)

	saver := config.NewSaver(cfg, *configPath, config.DefaultSaveDelay)

	fmt.Println("go-pedalctl")
	fmt.Println("Connect MIDI devices any time - they'll be detected automatically")
	fmt.Println("")

	m := tui.NewModel(manager, ports, saver, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := saver.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
	}
}
