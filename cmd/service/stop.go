package service

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the icon server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := stopServer(); err != nil {
			fmt.Println(err)
		}
	},
}

/**
 * Stop the icon server through the resident keeper
 * @returns {error} Returns error if stop request fails, nil on success
 * @description
 * - The process handle is owned by the keeper that spawned it, so a
 *   standalone CLI invocation has nothing to stop; the admin API of
 *   the resident icon-keeper server is the only meaningful path
 */
func stopServer() error {
	client := adminClient()
	defer client.Close()

	resp, err := client.Post("/iconkeeper/api/v1/server/stop", nil)
	if err != nil {
		return fmt.Errorf("no resident icon-keeper server reachable: %w", err)
	}
	if !resp.Success() {
		return fmt.Errorf("stop failed: %s", resp.Error)
	}
	fmt.Println("Icon server has been stopped")
	return nil
}

func init() {
	serviceCmd.AddCommand(stopCmd)
}
