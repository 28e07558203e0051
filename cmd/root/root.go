package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "icon-keeper",
	Short: "图标服务器进程守护与客户端",
	Long:  `icon-keeper负责图标搜索/生成服务器的启动、健康守护、停止，并提供搜索与生成的命令行及HTTP代理接口`,
}
