package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/noborus/ov/oviewer"
	"github.com/spf13/cobra"

	"blockpalette/internal/bridge"
	"blockpalette/internal/domain"
	"blockpalette/internal/eventbus"
	"blockpalette/internal/logging"
	"blockpalette/internal/page"
)

type catalogOptions struct {
	json    bool
	noPager bool
	timeout time.Duration
}

func newCatalogCmd(root *rootOptions) *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Scan the toolbox and print the block catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			logging.SetOutput(io.Discard)

			bus := eventbus.New()
			defer bus.Close()

			// No one is watching the editor boot here
			cfg.Host.BootDelay.Duration = 0
			engine, err := newEngine(bus, cfg)
			if err != nil {
				return fmt.Errorf("failed to start editor: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			endpoint := bridge.NewUIEndpoint(bus)
			defer endpoint.Close()
			worker := page.NewWorker(bus, engine, nil, page.Options{
				PollInterval: cfg.Scan.PollInterval.Duration,
			})
			go worker.Run(ctx)

			blocks, err := awaitCatalog(ctx, endpoint)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), blocks, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the catalog as JSON")
	cmd.Flags().BoolVar(&opts.noPager, "no-pager", false, "do not page output on a terminal")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "how long to wait for the scan")
	return cmd
}

// awaitCatalog requests a scan and returns the first catalog that arrives
func awaitCatalog(ctx context.Context, endpoint *bridge.UIEndpoint) (domain.Catalog, error) {
	if err := endpoint.Post(bridge.ScanRequest{}); err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("no catalog received: %w", ctx.Err())
		case resp, ok := <-endpoint.Responses():
			if !ok {
				return nil, fmt.Errorf("bridge closed before a catalog arrived")
			}
			if ready, ok := resp.(bridge.CatalogReady); ok {
				return ready.Blocks, nil
			}
		}
	}
}

func printCatalog(w io.Writer, blocks domain.Catalog, opts *catalogOptions) error {
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(blocks)
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tID\tLABEL")
	for _, b := range blocks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Category, b.ID, b.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.noPager || w != os.Stdout || !isatty.IsTerminal(os.Stdout.Fd()) {
		_, err := io.WriteString(w, sb.String())
		return err
	}
	return showInPager(sb.String())
}

// showInPager shows content using ov pager
func showInPager(content string) error {
	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
