package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docket/internal/checklist/handler"
	"docket/internal/checklist/store/template"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect requirement template rule sets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a YAML rule set and list its templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := template.LoadFile(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDOCUMENT\tCATEGORY\tDUE (DAYS)\tCONDITION")
			for _, t := range templates {
				condition := "-"
				if t.Conditional {
					condition = fmt.Sprintf("%s in %v", t.ConditionType, t.ConditionValues.Strings())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					t.ID, t.DocumentType, handler.CategoryLabel(t.Category), t.DeadlineOffsetDays, condition)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d templates OK\n", len(templates))
			return nil
		},
	})
	return cmd
}
