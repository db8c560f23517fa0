package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/internal/service"
)

func newUniversitiesCommand(state *commandState) *cobra.Command {
	var filter models.UniversityFilter
	cmd := &cobra.Command{
		Use:   "universities",
		Short: "List catalog universities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := state.app.Universities.List(filter)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPROVINCE\tGRADING")
			for _, u := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Name, u.Province, u.Grading)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&filter.Province, "province", "p", "", "Only universities in this province")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "Case-insensitive name search")
	return cmd
}

func newSelectCommand(state *commandState) *cobra.Command {
	return &cobra.Command{
		Use:   "select [university name]",
		Short: "Start a fresh record for a catalog university",
		Long:  "Select a university. Any existing record and its semesters are replaced.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := state.app.Records.SelectUniversity(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %s (%s grading)\n", record.University, record.GradingType)
			return nil
		},
	}
}

func newShowCommand(state *commandState) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the record with semesters newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := state.app.Records.View(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return printRecord(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record view as JSON")
	return cmd
}

func newAddSemesterCommand(state *commandState) *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:     "add-semester",
		Short:   "Add a semester",
		Example: `  gpactl add-semester -s "Calculus:3:A" -s "Physics Lab:1:B+"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := parseSubjects(raw)
			if err != nil {
				return err
			}
			result, err := state.app.Records.AddSemester(cmd.Context(), subjects)
			if err != nil {
				return err
			}
			printMutation(cmd.OutOrStdout(), "Added", result)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&raw, "subject", "s", nil, subjectFlagUsage)
	return cmd
}

func newEditSemesterCommand(state *commandState) *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:   "edit-semester [id]",
		Short: "Replace the subjects of a semester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSemesterID(args[0])
			if err != nil {
				return err
			}
			subjects, err := parseSubjects(raw)
			if err != nil {
				return err
			}
			result, err := state.app.Records.EditSemester(cmd.Context(), id, subjects)
			if err != nil {
				return err
			}
			if !result.Applied {
				fmt.Fprintf(cmd.OutOrStdout(), "No semester %d; nothing changed\n", id)
				return nil
			}
			printMutation(cmd.OutOrStdout(), "Updated", result)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&raw, "subject", "s", nil, subjectFlagUsage)
	return cmd
}

func newDeleteSemesterCommand(state *commandState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-semester [id]",
		Short: "Delete a semester and recompute CGPA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSemesterID(args[0])
			if err != nil {
				return err
			}
			result, err := state.app.Records.DeleteSemester(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !result.Applied {
				fmt.Fprintf(cmd.OutOrStdout(), "No semester %d; nothing changed\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted semester %d. CGPA %s\n", id, service.FormatGPA(result.Record.CGPA))
			return nil
		},
	}
}

func newPreviewCommand(state *commandState) *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute the SGPA of draft subjects without saving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := parseSubjects(raw)
			if err != nil {
				return err
			}
			preview, err := state.app.Records.PreviewSemester(cmd.Context(), subjects)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "SGPA %s over %s credits\n", preview.SGPADisplay, formatCredits(preview.TotalCredits))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&raw, "subject", "s", nil, subjectFlagUsage)
	return cmd
}

func newProfileCommand(state *commandState) *cobra.Command {
	var req dto.UpdateProfileRequest
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Set degree type and major",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := state.app.Records.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile saved: degree=%q major=%q\n", record.DegreeType, record.Major)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.DegreeType, "degree", "d", "", "Degree type: "+strings.Join(models.DegreeTypes, ", "))
	cmd.Flags().StringVarP(&req.Major, "major", "m", "", "Major or programme name")
	return cmd
}

func newExportCommand(state *commandState) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the record as a pdf or csv transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := state.app.Exports.Generate(cmd.Context(), models.ReportFormat(strings.ToLower(format)))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.app.ExportFiles.Path(artifact.RelativePath))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(models.ReportFormatPDF), "Output format: pdf or csv")
	return cmd
}

func newResetCommand(state *commandState) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the record and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("reset deletes every semester; re-run with --yes to confirm")
			}
			if err := state.app.Records.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Record deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deletion")
	return cmd
}

func parseSemesterID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("semester id %q must be an integer", raw)
	}
	return id, nil
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printMutation(out io.Writer, verb string, result *service.MutationResult) {
	fmt.Fprintf(out, "%s semester %d: SGPA %s. CGPA %s\n",
		verb,
		result.Semester.ID,
		service.FormatGPA(result.Semester.SGPA),
		service.FormatGPA(result.Record.CGPA),
	)
}

func printRecord(out io.Writer, view *dto.RecordView) error {
	fmt.Fprintf(out, "%s (%s)\n", view.University, view.GradingType)
	if view.DegreeType != "" || view.Major != "" {
		fmt.Fprintf(out, "%s %s\n", view.DegreeType, view.Major)
	}
	fmt.Fprintf(out, "CGPA %s over %s credits\n\n", view.CGPADisplay, formatCredits(view.TotalCredits))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEMESTER\tDATE\tSUBJECTS\tCREDITS\tSGPA")
	for _, sem := range view.Semesters {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", sem.ID, sem.Date, sem.SubjectCount, formatCredits(sem.TotalCredits), sem.SGPADisplay)
	}
	return w.Flush()
}
