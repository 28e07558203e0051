package main

import (
	"os"

	_ "icon-keeper/cmd"
	"icon-keeper/cmd/root"
	"icon-keeper/internal/config"
	"icon-keeper/internal/logger"
)

func main() {
	// 服务器模式下日志同时写文件和stdout
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"
	logger.InitLogger(&config.Config.Log, isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
