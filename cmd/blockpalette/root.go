package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"blockpalette/internal/bridge"
	"blockpalette/internal/config"
	"blockpalette/internal/eventbus"
	"blockpalette/internal/host/sim"
	"blockpalette/internal/logging"
	"blockpalette/internal/page"
	"blockpalette/internal/spawn"
	"blockpalette/internal/ui"
)

type rootOptions struct {
	configPath string
	toolbox    string
	blocks     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "blockpalette",
		Short: "Search and place blocks of a visual programming editor",
		Long: `blockpalette opens a block editor workspace with a search palette.
Press ctrl+p, ctrl+k or ctrl+f to search the toolbox and enter to place a block.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runPalette(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath(), "config file")
	cmd.PersistentFlags().StringVar(&opts.toolbox, "toolbox", "", "toolbox XML file (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.blocks, "blocks", "", "block definitions YAML file (overrides config)")

	cmd.AddCommand(newCatalogCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	_, statErr := os.Stat(o.configPath)
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	// Write the defaults on first run so there is a file to edit
	if errors.Is(statErr, os.ErrNotExist) {
		log := logging.NewLogger("main")
		if err := config.Save(cfg, o.configPath); err != nil {
			log.Warnf("Failed to save config: %v", err)
		} else {
			log.Infof("Config saved to %s", o.configPath)
		}
	}
	if o.toolbox != "" {
		cfg.Host.Toolbox = o.toolbox
	}
	if o.blocks != "" {
		cfg.Host.Blocks = o.blocks
	}
	return cfg, nil
}

func newEngine(bus eventbus.EventBus, cfg *config.Config) (*sim.Engine, error) {
	return sim.New(bus, sim.Options{
		ToolboxPath: cfg.Host.Toolbox,
		BlocksPath:  cfg.Host.Blocks,
		BootDelay:   cfg.Host.BootDelay.Duration,
	})
}

func runPalette(ctx context.Context, cfg *config.Config) error {
	closer, err := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logging.NewLogger("main")

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	engine, err := newEngine(bus, cfg)
	if err != nil {
		return fmt.Errorf("failed to start editor: %w", err)
	}

	executor := spawn.NewExecutor(engine, spawn.WithJitter(cfg.Spawn.Jitter))
	worker := page.NewWorker(bus, engine, executor, page.Options{
		PollInterval: cfg.Scan.PollInterval.Duration,
		SettleDelay:  cfg.Scan.SettleDelay.Duration,
	})
	endpoint := bridge.NewUIEndpoint(bus)
	defer endpoint.Close()

	model := ui.NewModel(endpoint, engine, ui.Options{
		Hotkeys:   cfg.UI.Hotkeys,
		ScanRetry: cfg.Scan.RetryAfter.Duration,
		Mouse:     cfg.UI.Mouse,
	})
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		programOpts = append(programOpts, tea.WithMouseAllMotion())
	}
	p := tea.NewProgram(model, programOpts...)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	for _, t := range []eventbus.EventType{
		eventbus.EventAlertRaised,
		eventbus.EventBlockSpawned,
		eventbus.EventHostReady,
		eventbus.EventScanCompleted,
	} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				log.Warn("Event channel full, dropping event")
			}
		})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	if cfg.Host.Watch {
		g.Go(func() error {
			return engine.Watch(ctx)
		})
	}
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case resp, ok := <-endpoint.Responses():
				if !ok {
					return nil
				}
				p.Send(ui.ResponseMsg{Response: resp})
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		log.Info("Starting UI")
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running program: %w", err)
		}
		log.Info("UI exited normally")
		return nil
	})

	return g.Wait()
}
