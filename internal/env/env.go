package env

import (
	"os"
	"path/filepath"
)

var Daemon bool = false
var ListenPort int = 0

// 构建时通过-ldflags注入
var SoftwareVer = ""
var BuildTime = ""
var BuildCommitId = ""

// (default: %USERPROFILE%/.icon-keeper on Windows, $HOME/.icon-keeper on Linux)
var IconKeeperDir string = GetIconKeeperDir()

/**
 * Get icon-keeper directory path
 * @returns {string} Returns icon-keeper directory path
 */
func GetIconKeeperDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".icon-keeper")
}
