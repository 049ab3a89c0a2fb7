package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Show or change the service address",
	Long: `Shows which configuration source provides the service address, sets an
explicit address, or runs the resolution again.`,
}

var endpointShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved address and every configured candidate",
	Args:  cobra.NoArgs,
	RunE:  runEndpointShow,
}

var endpointSetCmd = &cobra.Command{
	Use:   "set [url]",
	Short: "Save an explicit address to artisan.api_url",
	Long: `Validates and saves an absolute http(s) URL, including the API path.

Example:
  artisan endpoint set http://localhost:52773/artisan/api`,
	Args: cobra.ExactArgs(1),
	RunE: runEndpointSet,
}

var endpointResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the current address and resolve a different one",
	Args:  cobra.NoArgs,
	RunE:  runEndpointReset,
}

func init() {
	endpointCmd.AddCommand(endpointShowCmd)
	endpointCmd.AddCommand(endpointSetCmd)
	endpointCmd.AddCommand(endpointResetCmd)
	rootCmd.AddCommand(endpointCmd)
}

func runEndpointShow(cmd *cobra.Command, _ []string) error {
	if endpointResolver == nil {
		return errors.New("endpoint service not configured")
	}

	candidates := endpointResolver.Candidates()
	if len(candidates) == 0 {
		cmd.Println("No address configured.")
	} else {
		cmd.Println("Configured sources (highest precedence first):")
		for _, c := range candidates {
			cmd.Printf("  %-28s %s\n", c.Label, c.URL)
		}
	}
	cmd.Println()

	ep, ok := endpointResolver.Resolve(cmd.Context())
	if !ok {
		return errors.New("no service address available")
	}
	cmd.Printf("Using: %s %s\n", bold(ep.BaseURL), faint("("+ep.Source+")"))
	return nil
}

func runEndpointSet(cmd *cobra.Command, args []string) error {
	if endpointResolver == nil {
		return errors.New("endpoint service not configured")
	}

	ep, err := endpointResolver.SetBaseURL(args[0])
	if err != nil {
		return fmt.Errorf("failed to set address: %w", err)
	}

	cmd.Printf("Saved %s\n", ep.BaseURL)
	return nil
}

func runEndpointReset(cmd *cobra.Command, _ []string) error {
	if endpointResolver == nil {
		return errors.New("endpoint service not configured")
	}

	ep, ok := endpointResolver.Reconfigure(cmd.Context())
	if !ok {
		return errors.New("no service address available")
	}
	cmd.Printf("Using: %s %s\n", bold(ep.BaseURL), faint("("+ep.Source+")"))
	return nil
}
