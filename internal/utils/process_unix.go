//go:build !windows

package utils

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// SetNewPG 设置进程属性，使子进程在父进程退出后继续运行
// Unix系统实现
func SetNewPG(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

/**
 * TerminateProcess 请求进程优雅退出
 * @param {os.Process} process - 进程对象
 * @returns {error} 信号发送失败时返回错误
 * @description
 * - Unix上发送SIGTERM，给进程清理的机会
 * - 对不响应SIGTERM的进程，由调用方在超时后升级为Kill
 */
func TerminateProcess(process *os.Process) error {
	return process.Signal(syscall.SIGTERM)
}

// IsProcessRunning 检查进程是否正在运行
func IsProcessRunning(pid int) (bool, error) {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("failed to find process with PID %d: %v", pid, err)
	}

	// 发送signal 0来检查进程是否存在
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return false, nil
	}
	return true, nil
}
