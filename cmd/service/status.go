package service

import (
	"encoding/json"
	"fmt"

	"icon-keeper/internal/config"
	"icon-keeper/internal/models"
	"icon-keeper/internal/utils"
	"icon-keeper/services"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show icon server status",
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

// statusReply admin接口/server/status的响应结构
type statusReply struct {
	Endpoint    models.ServerEndpoint `json:"endpoint"`
	Healthy     bool                  `json:"healthy"`
	Connectable bool                  `json:"connectable"`
	Process     models.ProcessDetail  `json:"process"`
}

/**
 * Show status of the icon server
 * @description
 * - Asks the resident keeper first: only it holds the process handle
 *   and can report pid and exit history
 * - Without a resident keeper, falls back to external observation:
 *   health probe plus raw port connectability
 */
func showStatus() {
	client := adminClient()
	defer client.Close()

	resp, err := client.Get("/iconkeeper/api/v1/server/status", nil)
	if err == nil && resp.Success() {
		var reply statusReply
		if err := json.Unmarshal(resp.Body, &reply); err == nil {
			printManagedStatus(&reply)
			return
		}
	}
	printLocalStatus()
}

// printManagedStatus 打印常驻keeper上报的完整状态
func printManagedStatus(reply *statusReply) {
	fmt.Printf("Endpoint:    %s\n", reply.Endpoint)
	fmt.Printf("Status:      %s\n", describeStatus(reply.Healthy, reply.Connectable))
	fmt.Printf("Connectable: %v\n", reply.Connectable)

	detail := reply.Process
	if detail.Pid != 0 {
		fmt.Printf("PID:         %d\n", detail.Pid)
	}
	fmt.Printf("Process:     %s\n", detail.Status)
	if !detail.StartTime.IsZero() {
		fmt.Printf("Started:     %s\n", detail.StartTime.Format("2006-01-02 15:04:05"))
	}
	if detail.LastExitReason != "" {
		fmt.Printf("Last exit:   %s\n", detail.LastExitReason)
	}
}

// printLocalStatus 没有常驻keeper时只能做外部观测
func printLocalStatus() {
	cfg := &config.Config
	sup := services.NewProcessSupervisor(cfg)
	endpoint := sup.Endpoint()

	healthy := sup.IsRunning()
	connectable := utils.CheckPortConnectable(endpoint.Port)

	fmt.Printf("Endpoint:    %s\n", endpoint)
	fmt.Printf("Status:      %s\n", describeStatus(healthy, connectable))
	fmt.Printf("Connectable: %v\n", connectable)
}

func describeStatus(healthy, connectable bool) string {
	if healthy {
		return "running"
	}
	if connectable {
		// 端口有服务但健康检查不通过
		return "unhealthy"
	}
	return "stopped"
}

func init() {
	serviceCmd.AddCommand(statusCmd)
}
