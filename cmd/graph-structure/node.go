package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/graph-structure/internal/node"
	"github.com/pdiddy/graph-structure/internal/source"
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run a participant node",
}

var nodeServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer get_structure requests over HTTP",
	Long: `Serve opens the node's local graph and answers get_structure on
POST /rpc. Only the class-level report leaves the node.`,
	Example: `  graph-structure node serve --source edges.csv --listen :8081`,
	RunE:    runNodeServe,
}

func runNodeServe(cmd *cobra.Command, args []string) error {
	cfg, err := sourceConfig(cmd)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, map[string]string{"node.listen": "listen"}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := source.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	addr := viper.GetString("node.listen")
	log.Printf("Serving %s source on %s", cfg.Kind, addr)
	return serve(ctx, addr, node.NewServer(src).SetupRouter())
}

// serve runs r on addr until ctx ends, then shuts down gracefully.
func serve(ctx context.Context, addr string, r *gin.Engine) error {
	srv := &http.Server{Addr: addr, Handler: r}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("Stopped")
	return nil
}

func init() {
	addSourceFlags(nodeServeCmd.Flags())
	nodeServeCmd.Flags().String("listen", ":8081", "HTTP listen address")

	nodeCmd.AddCommand(nodeServeCmd)
	rootCmd.AddCommand(nodeCmd)
}
