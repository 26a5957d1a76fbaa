package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/service/installer"
	"github.com/telmii/telmii/pkg/log"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the runtime directory and its .env interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		if _, err := installer.RunWizard(runtimePath); err != nil {
			return err
		}

		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Setup complete! Start chatting with 'telmii chat --companion <id> --user <id>'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
