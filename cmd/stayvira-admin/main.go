// Command stayvira-admin performs account maintenance against the listings
// database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "stayvira-admin",
		Short:         "Account maintenance for the Stayvira listings API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newHashPasswordCmd(),
		newSeedAdminCmd(logger, openUserService),
	)
	return root
}
