package service

import (
	"context"
	"fmt"

	"icon-keeper/internal/config"
	"icon-keeper/internal/models"
	"icon-keeper/services"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the icon server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(context.Background()); err != nil {
			fmt.Println(err)
		}
	},
}

/**
 * Start the icon server
 * @param {context.Context} ctx - Context for request cancellation and timeout
 * @returns {error} Returns error if server start fails, nil on success
 * @description
 * - First tries the admin API of a resident icon-keeper server
 * - Falls back to starting the process with a local supervisor
 */
func startServer(ctx context.Context) error {
	client := adminClient()
	resp, err := client.Post("/iconkeeper/api/v1/server/start", nil)
	if err == nil && resp.Success() {
		client.Close()
		fmt.Println("Icon server has been started via icon-keeper server")
		return nil
	}
	client.Close()
	return startServerLocally(ctx)
}

// startServerLocally 使用本地监管器启动图标服务器
func startServerLocally(ctx context.Context) error {
	sup := services.NewProcessSupervisor(&config.Config)
	if !sup.Start(ctx) {
		return models.NewFailure(models.ReasonServiceUnavailable,
			"icon server at %s failed to become healthy", sup.Endpoint())
	}
	fmt.Println("Icon server has been started locally")
	return nil
}

func init() {
	serviceCmd.AddCommand(startCmd)
}
