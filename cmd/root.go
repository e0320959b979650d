package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/app"
	"github.com/fitdesk/fitdesk/internal/config"
	"github.com/fitdesk/fitdesk/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	serverURL             string
	token                 string
	memberID              int64
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "fitdesk",
	Short: "Terminal console for coaching conversations",
	Long: `FitDesk is a terminal console for gym admins to read and answer member
conversations. It talks to the FitDesk backend over its REST API; point it
at your server with --server or the config file at ~/.fitdesk/config.json.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Backend base URL (overrides config)")
	rootCmd.Flags().StringVar(&token, "token", "", "Admin API token (overrides config and FITDESK_TOKEN)")
	rootCmd.Flags().Int64VarP(&memberID, "member", "m", 0, "Open the conversation with this member id directly")
}

func initLogging() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("fitdesk %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("fitdesk %s\n", version)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if serverURL != "" {
		cfg.SetServerURL(serverURL)
	}
	if token != "" {
		cfg.SetToken(token)
	}

	if cfg.GetServerURL() == "" {
		return fmt.Errorf("no server configured; pass --server or set server_url in ~/.fitdesk/config.json")
	}
	if cfg.GetToken() == "" {
		return fmt.Errorf("no API token configured; pass --token, set FITDESK_TOKEN, or add token to ~/.fitdesk/config.json")
	}

	// Logging goes to a file so it never corrupts the TUI
	defer logger.Close()

	client := api.New(cfg.GetServerURL(), cfg.GetToken())

	var opts []app.Option
	if memberID > 0 {
		opts = append(opts, app.WithMember(memberID))
	}

	m := app.New(cfg, client, version, opts...)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
