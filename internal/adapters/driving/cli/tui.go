package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for artisan.

The TUI walks a prompt through refinement: write a prompt, answer the
clarifying questions one at a time, then adopt the optimised prompt as the
template for the next cycle. Stored documents and their chunks can be
browsed and deleted.

Controls:
  ctrl+s   - Optimise the prompt being edited
  ↑/k, ↓/j - Navigate lists
  Enter    - Select / answer / expand
  a        - Adopt the optimised prompt as template
  d        - Delete
  r        - Refresh the document listing
  Esc      - Back
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

// runProgram runs the app until it exits.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if refinementCoordinator == nil && newRefinement == nil {
		return errors.New("refinement service not configured")
	}

	// Resolve while the terminal still reads lines; the UI cannot prompt.
	if endpointResolver != nil {
		if _, ok := endpointResolver.Resolve(cmd.Context()); !ok {
			return errors.New("no service address configured: run 'artisan endpoint set <url>' first")
		}
	}

	ports := &tui.Ports{
		Refinement: refinementFactory()(),
		Documents:  documentService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	startConfigWatch(cmd.Context())

	release := acquireTerminal()
	defer release()

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
