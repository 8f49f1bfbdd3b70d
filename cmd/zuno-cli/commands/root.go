package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8000"

var (
	serverURL string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "zuno-cli",
	Short: "Zuno - shopping recommendations from the command line",
	Long: `zuno-cli sends shopping questions to a running Zuno server and prints the
ranked products, review videos, visually similar items and the assistant's summary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	// A .env next to the binary may carry ZUNO_SERVER_URL
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("ZUNO_SERVER_URL", defaultServerURL), "Zuno server base URL")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newRecommendCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
