package cli

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rcliao/qa-keywords/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the keyword API over HTTP",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $QA_KEYWORDS_HTTP_ADDR or 127.0.0.1:8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.NewHandlers(s, logger))
	if err := server.Serve(ctx, cfg.HTTPAddr, router, logger); err != nil {
		exitErr("serve", err)
	}
}
