package cli

import (
	"labsite/internal/config"

	"github.com/spf13/cobra"
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	serve := newServeCmd(version)

	cmd := &cobra.Command{
		Use:   "labsite",
		Short: "Research lab website backend",
		Long: `labsite serves the public content API of the lab website and the admin
surfaces behind it: account requests, user management, content editing and
media uploads. Configuration is read from environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// 不带子命令时直接启动服务
		RunE: serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

// loadConfig parses the environment and configures logrus.
func loadConfig() (config.Config, error) {
	cfg, err := config.ParseConfig()
	if err != nil {
		return cfg, err
	}
	cfg.ConfigureLogger()
	return cfg, nil
}
