package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordanhubbard/linkodin/internal/generation"
	"github.com/jordanhubbard/linkodin/internal/linkodin"
	"github.com/jordanhubbard/linkodin/internal/logging"
	"github.com/jordanhubbard/linkodin/pkg/config"
)

const version = "0.2.0"

var (
	configPath   string
	outputFormat string
	verbose      bool

	cfg    *config.Config
	logMgr *logging.Manager
)

func main() {
	rootCmd := newRootCommand()
	err := rootCmd.Execute()
	if logMgr != nil {
		logMgr.Close()
	}
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linkodin",
		Short: "LinkodIn - AI-powered LinkedIn post generator",
		Long: `linkodin manages LinkedIn personas and generates posts for them with a
three-stage pipeline: market analysis, post content and an image prompt.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.ErrOrStderr())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default $LINKODIN_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newPersonaCommand())
	rootCmd.AddCommand(newPostCommand())
	rootCmd.AddCommand(newDemoCommand())
	return rootCmd
}

// setup loads configuration and routes the standard logger through the
// logging manager.
func setup(stderr io.Writer) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	logMgr = logging.NewManager(cfg.Logging.Level, stderr)
	if verbose {
		logMgr.SetLevel(logging.LogLevelDebug)
	}
	if cfg.Logging.File != "" {
		if err := logMgr.OpenFile(cfg.Logging.File); err != nil {
			return err
		}
	}
	logMgr.InstallLogInterceptor()
	return nil
}

// openLinkodin builds the dependencies for one command. mock swaps the
// configured provider for the offline generator.
func openLinkodin(ctx context.Context, mock bool) (*linkodin.Linkodin, error) {
	c := *cfg
	if mock {
		c.Generation.Provider = config.ProviderMock
	}
	return linkodin.New(ctx, &c)
}

func jsonOutput() bool {
	return outputFormat == "json"
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError writes the user-facing error line, with a setup hint when the
// live backend is missing its credential.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "[!] Error: %v\n", err)

	var cfgErr *generation.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(w, "Please set your API key: export %s='your-key-here' (or add it to .env)\n", cfgErr.Setting)
		fmt.Fprintln(w, "Or use --mock to generate sample content: linkodin post generate <persona-id> --mock")
	}
}
