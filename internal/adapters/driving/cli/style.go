package cli

import "github.com/fatih/color"

// Output colours. fatih/color disables them when stdout is not a terminal.
var (
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
)
