package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/sync"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal for other devices to sync against",
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			srv := &http.Server{
				Addr:              a.Cfg.SyncAddr,
				Handler:           sync.NewServer(a.Repo, a.Logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			a.Logger.Info(ctx, "Sync server listening", map[string]interface{}{"addr": a.Cfg.SyncAddr})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		}),
	}
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push all local trades to the remote sync endpoint",
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			client, err := sync.NewClient(a.Cfg.SyncRemoteURL, a.Repo, a.Logger)
			if err != nil {
				return err
			}
			pushed, failed, err := client.Push(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("pushed %d trades (%d failed)\n", pushed, failed)
			return nil
		}),
	}
}

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull trades from the remote sync endpoint",
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			client, err := sync.NewClient(a.Cfg.SyncRemoteURL, a.Repo, a.Logger)
			if err != nil {
				return err
			}
			pulled, failed, err := client.Pull(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("pulled %d trades (%d failed)\n", pulled, failed)
			return nil
		}),
	}
}
