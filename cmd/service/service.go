package service

import (
	"strings"
	"time"

	"icon-keeper/cmd/root"
	"icon-keeper/internal/config"
	"icon-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the supervised icon server",
}

/**
 * adminClient 连接本机admin服务器(icon-keeper server)的HTTP客户端
 * @description
 * - service子命令优先通过admin接口操作常驻的keeper，
 *   admin不在线时退回本地监管器
 */
func adminClient() rpc.HTTPClient {
	address := config.Config.Server.Address
	if strings.HasPrefix(address, ":") {
		address = "localhost" + address
	}
	return rpc.NewHTTPClient(&rpc.HTTPConfig{
		BaseURL: "http://" + address,
		Timeout: 10 * time.Second,
	})
}

func init() {
	root.RootCmd.AddCommand(serviceCmd)
}
