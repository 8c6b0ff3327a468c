package cli

import (
	"encoding/json"
	"fmt"

	"storefront-cms/internal/domain/composer"

	"github.com/spf13/cobra"
)

func newEncodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a JSON component list into page content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			var items []composer.ComponentItem
			if err := json.Unmarshal([]byte(in), &items); err != nil {
				return writeErr(cmd, fmt.Errorf("parse component list: %w", err))
			}
			for i := range items {
				if items[i].Type == "" {
					items[i].Type = composer.TypeFromID(items[i].ID)
				}
			}
			content, err := composer.Encode(items)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
			return err
		},
	}
	return cmd
}

func newDecodeCmd(app *App) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode page content into a JSON component list",
		Long:  "Decode page content into a JSON component list. Tags that cannot be decoded are reported on stderr and skipped.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, errs := composer.Decode(in)
			for _, e := range errs {
				app.logger.WithError(e.Err).WithField("offset", e.Offset).Warn("skipping undecodable component tag")
			}
			if err := writeOut(cmd, app, items); err != nil {
				return err
			}
			if strict && len(errs) > 0 {
				return writeErr(cmd, fmt.Errorf("%d component tag(s) could not be decoded", len(errs)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any tag is skipped")
	return cmd
}

func newInspectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show each component of page content in its typed form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			reg := composer.DefaultRegistry()
			items := composer.DecodeContent(in, app.logger)

			out := make([]inspectedComponent, 0, len(items))
			for _, it := range items {
				v, err := composer.VariantOf(reg, it)
				if err != nil {
					return writeErr(cmd, err)
				}
				typed, err := composer.ItemFromVariant(it.ID, it.Order, v)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, unknown := v.(*composer.Unknown)
				out = append(out, inspectedComponent{
					ID:       it.ID,
					Kind:     string(v.Kind()),
					Known:    !unknown,
					Order:    it.Order,
					Content:  typed.Content,
					Settings: typed.Settings,
				})
			}
			return writeOut(cmd, app, out)
		},
	}
	return cmd
}

// inspectedComponent shows a component with its kind's defaults filled in.
type inspectedComponent struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Known    bool           `json:"known"`
	Order    int            `json:"order"`
	Content  map[string]any `json:"content"`
	Settings map[string]any `json:"settings"`
}
