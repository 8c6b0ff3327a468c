package cli

import (
	"fmt"

	"storefront-cms/internal/domain/composer"

	"github.com/spf13/cobra"
)

type templateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Components  int    `json:"components"`
}

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List page templates and snippets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := app.library()
			if err != nil {
				return writeErr(cmd, err)
			}
			templates, err := lib.PageTemplates()
			if err != nil {
				return writeErr(cmd, err)
			}
			summaries := make([]templateSummary, 0, len(templates))
			for _, t := range templates {
				summaries = append(summaries, templateSummary{ID: t.ID, Name: t.Name, Description: t.Description, Components: len(t.Components)})
			}
			snippets := make([]templateSummary, 0)
			for _, s := range lib.Snippets() {
				snippets = append(snippets, templateSummary{ID: s.ID, Name: s.Name, Description: s.Description, Components: 1})
			}
			return writeOut(cmd, app, map[string]any{
				"templates": summaries,
				"snippets":  snippets,
			})
		},
	}
	return cmd
}

func newApplyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <template-id>",
		Short: "Print the encoded content of a fresh template instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := app.library()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := lib.Template(args[0])
			if !ok {
				return writeErr(cmd, composer.NotFoundError{Kind: "template", ID: args[0]})
			}
			ids := composer.NewUniqueIDs(composer.ClockIDs{})
			content, err := composer.Encode(composer.Instantiate(t, ids))
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
			return err
		},
	}
	return cmd
}
