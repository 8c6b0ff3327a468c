package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"storefront-cms/internal/domain/composer"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	CatalogFile string
	PrettyJSON  bool
	LogLevel    string

	logger *logrus.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "pagectl",
		Short:        "Offline tools for storefront page content",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Encode a JSON component list into page content
  pagectl encode components.json > page.html

  # Decode stored page content back into components
  pagectl decode page.html --pretty

  # Instantiate a template and print its encoded content
  pagectl apply storefront-home --file catalog.yaml
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.logger = logrus.New()
		app.logger.SetOutput(cmd.ErrOrStderr())
		lvl, err := logrus.ParseLevel(app.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q", app.LogLevel)
		}
		app.logger.SetLevel(lvl)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.CatalogFile, "file", envOr("TEMPLATES_FILE", ""), "YAML template catalog merged over the built-in one")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	cmd.AddCommand(newEncodeCmd(app))
	cmd.AddCommand(newDecodeCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newInspectCmd(app))

	return cmd
}

func (app *App) library() (*composer.Library, error) {
	return composer.LoadLibrary(app.CatalogFile)
}

// readInput reads the file named by args[0], or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
