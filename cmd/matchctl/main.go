package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/oggyb/roommate-match/internal/config"
	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
)

type clientKey struct{}

var rootCmd = &cobra.Command{
	Use:   "matchctl",
	Short: "Command line client for the roommate matching service",
	Long: `matchctl talks to a running roommate matching server over gRPC.
It submits and withdraws searches and browses the feed and matches of a user.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("failed to connect to %s: %w", addr, err)
		}
		cobra.OnFinalize(func() { _ = conn.Close() })

		// Store client in command context
		cmd.SetContext(context.WithValue(cmd.Context(), clientKey{}, pb.NewRoommateServiceClient(conn)))
		return nil
	},
}

// client returns the RoommateService client and a per-call context.
func client(cmd *cobra.Command) (pb.RoommateServiceClient, context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return cmd.Context().Value(clientKey{}).(pb.RoommateServiceClient), ctx, cancel
}

func init() {
	cfg := config.New()
	rootCmd.PersistentFlags().String("addr", cfg.Addr(), "Server address (host:port)")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Second, "Per-call timeout")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
