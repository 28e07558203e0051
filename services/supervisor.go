package services

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"icon-keeper/internal/config"
	"icon-keeper/internal/logger"
	"icon-keeper/internal/models"
	"icon-keeper/internal/utils"
)

// 未显式配置server_path时，在server_dir下按此顺序查找入口文件
var defaultEntryFiles = []string{"index.js", "mcp-server.js"}

/**
 * PollPolicy 健康轮询策略
 * @property {time.Duration} interval - 两次探测之间的固定间隔
 * @property {int} maxAttempts - 最大探测次数
 */
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// serverProcess 子进程的所有权句柄，只有监管器可以终止它
type serverProcess interface {
	Pid() int
	Terminate() error
	Kill() error
	Done() <-chan error
	Output() (stdout, stderr string)
}

// osServerProcess serverProcess的真实实现，包装exec.Cmd
type osServerProcess struct {
	cmd    *exec.Cmd
	done   chan error
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func (p *osServerProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *osServerProcess) Terminate() error {
	return utils.TerminateProcess(p.cmd.Process)
}

func (p *osServerProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *osServerProcess) Done() <-chan error {
	return p.done
}

func (p *osServerProcess) Output() (string, string) {
	return p.stdout.String(), p.stderr.String()
}

/**
 * spawnServerProcess 启动图标服务器子进程
 * @param {string} command - 解释器命令（默认node）
 * @param {[]string} args - 命令参数（入口文件路径）
 * @param {string} dir - 工作目录，设置为入口文件所在目录
 * @returns {serverProcess} 子进程句柄
 * @returns {error} 启动失败时返回错误
 * @description
 * - 子进程放入新进程组，父进程退出不会连带杀掉它
 * - stdout/stderr捕获到内存，启动失败时用于诊断，不实时透传
 */
func spawnServerProcess(command string, args []string, dir string) (serverProcess, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	utils.SetNewPG(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	proc := &osServerProcess{
		cmd:    cmd,
		done:   make(chan error, 1),
		stdout: stdout,
		stderr: stderr,
	}
	go func() {
		proc.done <- cmd.Wait()
	}()
	return proc, nil
}

/**
 * ProcessSupervisor 图标服务器进程监管器
 * @property {models.ServerEndpoint} endpoint - 声明的服务器地址
 * @property {serverProcess} proc - 持有的子进程句柄，未运行时为nil
 * @description
 * - 一个监管器至多持有一个子进程
 * - "运行中"完全以外部可观测的健康状态为准，不以句柄存在为准：
 *   句柄可能对应已崩溃的进程，健康也可能来自别处启动的服务器
 * - 所有操作同步阻塞，调用之间没有后台轮询协程
 */
type ProcessSupervisor struct {
	endpoint models.ServerEndpoint
	icon     config.IconServerConfig
	timing   config.SupervisorConfig

	probe Prober
	spawn func(command string, args []string, dir string) (serverProcess, error)
	sleep func(time.Duration)

	mutex          sync.Mutex
	proc           serverProcess
	entry          string
	status         models.RunStatus
	startTime      time.Time
	lastExitTime   time.Time
	lastExitReason string
}

/**
 * NewProcessSupervisor 创建进程监管器
 * @param {config.AppConfig} cfg - 应用配置
 * @returns {ProcessSupervisor} 返回创建的监管器
 * @description
 * - 探测器、子进程创建和睡眠均可注入，测试时可以零延迟运行
 */
func NewProcessSupervisor(cfg *config.AppConfig) *ProcessSupervisor {
	endpoint := cfg.Icon.Endpoint()
	return &ProcessSupervisor{
		endpoint: endpoint,
		icon:     cfg.Icon,
		timing:   cfg.Supervisor,
		probe:    NewHealthProbe(endpoint, cfg.Supervisor.ProbeTimeout),
		spawn:    spawnServerProcess,
		sleep:    time.Sleep,
		status:   models.StatusExited,
	}
}

// ManagedPolicy 托管启动使用的轮询策略
func (s *ProcessSupervisor) ManagedPolicy() PollPolicy {
	return PollPolicy{Interval: s.timing.PollInterval, MaxAttempts: s.timing.ManagedAttempts}
}

// AdhocPolicy 临时启动使用的轮询策略，尝试次数更少
func (s *ProcessSupervisor) AdhocPolicy() PollPolicy {
	return PollPolicy{Interval: s.timing.PollInterval, MaxAttempts: s.timing.AdhocAttempts}
}

/**
 * Start 启动图标服务器并等待其变为健康（托管策略）
 * @param {context.Context} ctx - 用于取消启动
 * @returns {bool} 服务器健康返回true；入口缺失、启动失败或探测耗尽返回false
 * @description
 * - 服务器已健康时是无副作用的no-op，直接返回true
 * - 探测耗尽时子进程句柄仍被持有，后续Stop()可以回收它
 */
func (s *ProcessSupervisor) Start(ctx context.Context) bool {
	ok, fail := s.start(ctx, s.ManagedPolicy())
	if fail != nil {
		logger.Errorf("Failed to start icon server: %v", fail)
	}
	RecordServerStart(ok)
	return ok
}

// StartAdhoc 临时启动，轮询次数少，用于交互式场景
func (s *ProcessSupervisor) StartAdhoc(ctx context.Context) bool {
	ok, fail := s.start(ctx, s.AdhocPolicy())
	if fail != nil {
		logger.Errorf("Failed to start icon server: %v", fail)
	}
	RecordServerStart(ok)
	return ok
}

func (s *ProcessSupervisor) start(ctx context.Context, policy PollPolicy) (bool, *models.Failure) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// 已健康则无事可做
	if s.probe.IsHealthy() {
		return true, nil
	}

	if s.proc == nil || s.exited() {
		entry, fail := s.resolveEntryPoint()
		if fail != nil {
			s.status = models.StatusError
			return false, fail
		}

		logger.Infof("Starting icon server: %s %s", s.icon.Command, entry)
		proc, err := s.spawn(s.icon.Command, []string{entry}, filepath.Dir(entry))
		if err != nil {
			s.status = models.StatusError
			s.lastExitReason = "start failed"
			return false, models.NewFailure(models.ReasonProcessError, "spawn %s: %v", entry, err)
		}
		s.proc = proc
		s.entry = entry
		s.startTime = time.Now()
		logger.Infof("Icon server started (PID: %d)", proc.Pid())
	}

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(policy.Interval)
		}
		if ctx.Err() != nil {
			s.status = models.StatusError
			return false, models.NewFailure(models.ReasonServiceUnavailable, "start cancelled: %v", ctx.Err())
		}
		if s.probe.IsHealthy() {
			s.status = models.StatusRunning
			return true, nil
		}
	}

	// 探测耗尽：进程句柄保留，留给调用方检查或Stop()回收
	s.status = models.StatusError
	s.lastExitReason = "health poll exhausted"
	_, errOut := s.proc.Output()
	if errOut != "" {
		logger.Errorf("Icon server stderr: %s", errOut)
	}
	return false, models.NewFailure(models.ReasonServiceUnavailable,
		"icon server did not become healthy after %d attempts", policy.MaxAttempts)
}

// exited 判断持有的子进程是否已经退出（非阻塞）
func (s *ProcessSupervisor) exited() bool {
	select {
	case err := <-s.proc.Done():
		s.lastExitTime = time.Now()
		if err != nil {
			s.lastExitReason = "exited with error: " + err.Error()
		} else {
			s.lastExitReason = "exited normally"
		}
		s.proc = nil
		return true
	default:
		return false
	}
}

/**
 * Stop 停止持有的子进程
 * @description
 * - 幂等：未持有进程时直接返回
 * - 先优雅终止，等待stop_timeout，超时后强制杀死，强杀只发一次
 * - 无论结果如何都清空句柄，从不向调用方抛错
 */
func (s *ProcessSupervisor) Stop() {
	if fail := s.stop(); fail != nil {
		logger.Errorf("Stop icon server: %v", fail)
	}
}

func (s *ProcessSupervisor) stop() *models.Failure {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.proc == nil {
		return nil
	}
	if s.exited() {
		// 子进程已经自行退出，只需清理状态
		s.status = models.StatusStopped
		return nil
	}

	pid := s.proc.Pid()
	var fail *models.Failure

	logger.Infof("Stopping icon server (PID: %d)", pid)
	if err := s.proc.Terminate(); err != nil {
		fail = models.NewFailure(models.ReasonProcessError, "terminate PID %d: %v", pid, err)
	}

	select {
	case <-s.proc.Done():
		logger.Infof("Icon server (PID: %d) terminated gracefully", pid)
	case <-time.After(s.timing.StopTimeout):
		// 优雅终止超时，升级为强制杀死
		logger.Warnf("Icon server (PID: %d) did not exit in %v, killing", pid, s.timing.StopTimeout)
		if err := s.proc.Kill(); err != nil {
			fail = models.NewFailure(models.ReasonProcessError, "kill PID %d: %v", pid, err)
		}
		<-s.proc.Done()
	}

	s.proc = nil
	s.status = models.StatusStopped
	s.lastExitTime = time.Now()
	s.lastExitReason = "stopped by supervisor"
	return fail
}

/**
 * IsRunning 判断图标服务器是否在运行
 * @returns {bool} 健康探测通过返回true
 * @description
 * - 只看外部可观测的健康状态，不看进程句柄
 */
func (s *ProcessSupervisor) IsRunning() bool {
	return s.probe.IsHealthy()
}

// Endpoint 监管器声明的服务器地址
func (s *ProcessSupervisor) Endpoint() models.ServerEndpoint {
	return s.endpoint
}

// Detail 监管器当前状态快照，用于status命令和admin接口
func (s *ProcessSupervisor) Detail() models.ProcessDetail {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	detail := models.ProcessDetail{
		Title:          "icon-server",
		Command:        s.icon.Command,
		Status:         s.status,
		StartTime:      s.startTime,
		LastExitTime:   s.lastExitTime,
		LastExitReason: s.lastExitReason,
	}
	if s.entry != "" {
		detail.Args = []string{s.entry}
		detail.WorkDir = filepath.Dir(s.entry)
	}
	if s.proc != nil {
		detail.Pid = s.proc.Pid()
	}
	return detail
}

/**
 * resolveEntryPoint 解析服务器入口文件路径
 * @returns {string} 入口文件的路径
 * @returns {models.Failure} 找不到入口文件时返回ReasonConfigError
 * @description
 * - 显式配置server_path时只认它
 * - 否则在server_dir下按固定顺序查找默认文件名
 */
func (s *ProcessSupervisor) resolveEntryPoint() (string, *models.Failure) {
	if s.icon.ServerPath != "" {
		if _, err := os.Stat(s.icon.ServerPath); err != nil {
			return "", models.NewFailure(models.ReasonConfigError,
				"configured server_path %s not found", s.icon.ServerPath)
		}
		return s.icon.ServerPath, nil
	}

	for _, name := range defaultEntryFiles {
		path := filepath.Join(s.icon.ServerDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", models.NewFailure(models.ReasonConfigError,
		"no server entry point (%v) found in %s", defaultEntryFiles, s.icon.ServerDir)
}
