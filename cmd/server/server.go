package server

import (
	"context"
	"fmt"
	"os"

	"icon-keeper/cmd/root"
	"icon-keeper/controllers"
	"icon-keeper/internal/config"
	"icon-keeper/internal/env"
	"icon-keeper/internal/logger"
	"icon-keeper/internal/middleware"
	"icon-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the resident icon-keeper server",
	Long:  `Run a resident keeper process that supervises the icon server and exposes an HTTP admin API with search/generate proxying, readiness probe and prometheus metrics`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

/**
 * Run the resident keeper server
 * @returns {error} Returns error if server fails to start
 * @description
 * - Creates a supervisor and binds its cleanup to process lifecycle
 * - Auto-start failure is degraded operation, not fatal: the admin API
 *   can still be used to retry the start later
 */
func runServer() error {
	cfg := &config.Config
	gin.SetMode(cfg.Server.Mode)

	sup := services.NewProcessSupervisor(cfg)
	guard, err := services.NewLifecycleGuard(context.Background(), sup, cfg.Icon.AutoStart)
	if err != nil {
		logger.Warnf("Icon server auto-start failed: %v", err)
	}
	defer guard.Close()

	client := services.NewApiClient(cfg, sup)
	defer client.Close()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())

	api := controllers.NewAPIController(client, sup, env.SoftwareVer)
	api.RegisterRoutes(router)

	logger.Infof("icon-keeper server listening on %s", cfg.Server.Address)
	return router.Run(cfg.Server.Address)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)

	serverCmd.Example = `  icon-keeper server`
}
