// =============================================================================
// Grocery List Converter - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   grocer serve [--addr :3000] [--db ./data/submissions.db]
//
// Runs the demo grocery form server until interrupted. Submissions are stored
// in a SQLite database.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grocery-list-converter/internal/formserver"
	"github.com/ginjaninja78/grocery-list-converter/internal/logger"
	"github.com/ginjaninja78/grocery-list-converter/internal/store"
)

var (
	serveAddr string
	serveDB   string
)

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo grocery form server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			mainConfig.ListenAddr = serveAddr
		}
		if cmd.Flags().Changed("db") {
			mainConfig.DBPath = serveDB
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default from config)")
}

func runServe(ctx context.Context) error {
	log := logger.Named("formserver")

	db, err := store.Open(mainConfig.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open submission store: %w", err)
	}
	defer db.Close()

	log.Info().Str("db", mainConfig.DBPath).Msg("submission store ready")

	return formserver.New(mainConfig.ListenAddr, db, *log).Run(ctx)
}
