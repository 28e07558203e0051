//go:build windows

package utils

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// SetNewPG 设置进程属性，使子进程在父进程退出后继续运行
// Windows系统实现
func SetNewPG(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

/**
 * TerminateProcess 请求进程退出
 * @param {os.Process} process - 进程对象
 * @returns {error} 终止失败时返回错误
 * @description
 * - Windows没有SIGTERM，直接结束进程
 */
func TerminateProcess(process *os.Process) error {
	return process.Kill()
}

// IsProcessRunning 检查进程是否正在运行 使用 GetExitCodeProcess 检查进程是否正在运行
func IsProcessRunning(pid int) (bool, error) {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false, nil
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false, fmt.Errorf("failed to query process with PID %d: %v", pid, err)
	}
	return exitCode == uint32(windows.STILL_ACTIVE), nil
}
