// Package cli holds the checkoutctl commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"corporate-checkout/internal/app"
	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/config"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/render"
	"corporate-checkout/internal/service/checkout"
)

type env struct {
	now        func() time.Time
	loadConfig func() (*config.Config, error)
	stdin      io.Reader
}

// RootCmd returns the checkoutctl root command.
func RootCmd() *cobra.Command {
	return newRootCmd(env{
		now:        func() time.Time { return time.Now().UTC() },
		loadConfig: config.FromEnv,
		stdin:      os.Stdin,
	})
}

func newRootCmd(e env) *cobra.Command {
	root := &cobra.Command{
		Use:           "checkoutctl",
		Short:         "Evaluate corporate delivery checkouts offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(evaluateCmd(e))
	root.AddCommand(vendorsCmd(e))
	return root
}

func evaluateCmd(e env) *cobra.Command {
	var (
		file    string
		noColor bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the checkout pipeline on a request and print a summary",
		Long: `Run the checkout pipeline on a delivery request and print a printable summary.

The request is a JSON document with the fields of a checkout; omitted fields keep
the values a new checkout starts with. Thresholds come from the environment
(POLICY_*, ROUTE_*).

Examples:
  checkoutctl evaluate -f request.json
  checkoutctl evaluate -f - --no-color < request.json
  checkoutctl evaluate -f request.json --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			req, err := readRequest(file, e.stdin)
			if err != nil {
				return err
			}
			engine := checkout.NewEngine(catalog.Default(), app.EngineConfig(cfg)).WithClock(e.now)
			snap := engine.Snapshot(req)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			return render.New(noColor).Summary(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "request JSON file, - for stdin")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON instead")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func vendorsCmd(_ env) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List the vendor catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render.New(noColor).Vendors(cmd.OutOrStdout(), catalog.Default().List())
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func readRequest(file string, stdin io.Reader) (domain.DeliveryRequest, error) {
	var r io.Reader
	if file == "-" {
		r = stdin
	} else {
		f, err := os.Open(file)
		if err != nil {
			return domain.DeliveryRequest{}, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	req := domain.NewDeliveryRequest(catalog.DefaultVendorID)
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.DeliveryRequest{}, fmt.Errorf("%w: empty request", apperr.ErrInvalid)
		}
		return domain.DeliveryRequest{}, fmt.Errorf("%w: decode request: %v", apperr.ErrInvalid, err)
	}
	return checkout.PrepareRequest(req)
}
