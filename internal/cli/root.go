package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the gpactl command tree. open is called once before
// any subcommand runs.
func NewRootCommand(open Opener) *cobra.Command {
	var (
		verbose bool
		closer  func() error
	)
	state := &commandState{}

	root := &cobra.Command{
		Use:   "gpactl",
		Short: "Track semester and cumulative GPA from the terminal",
		Long: `gpactl manages the same academic record as the GPA tracker API.
Pick a university once, then add semesters as name:credit:grade subjects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.HasParent() || cmd.Name() == "help" {
				return nil
			}
			app, c, err := open(cmd.Context(), verbose)
			if err != nil {
				return err
			}
			state.app = app
			closer = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closer != nil {
				return closer()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newUniversitiesCommand(state),
		newSelectCommand(state),
		newShowCommand(state),
		newAddSemesterCommand(state),
		newEditSemesterCommand(state),
		newDeleteSemesterCommand(state),
		newPreviewCommand(state),
		newProfileCommand(state),
		newExportCommand(state),
		newResetCommand(state),
	)
	return root
}

type commandState struct {
	app *App
}
