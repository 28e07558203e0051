package services

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"icon-keeper/internal/logger"
	"icon-keeper/internal/models"
)

// 进程级的退出钩子注册表。信号到来时依次执行钩子后以成功状态退出，
// 把中断当作正常的关闭请求而不是错误。
var shutdown struct {
	mu      sync.Mutex
	hooks   map[int]func()
	nextID  int
	watchOn sync.Once
}

func registerShutdownHook(fn func()) int {
	shutdown.mu.Lock()
	defer shutdown.mu.Unlock()

	if shutdown.hooks == nil {
		shutdown.hooks = make(map[int]func())
	}
	shutdown.nextID++
	id := shutdown.nextID
	shutdown.hooks[id] = fn

	shutdown.watchOn.Do(watchSignals)
	return id
}

func deregisterShutdownHook(id int) {
	shutdown.mu.Lock()
	defer shutdown.mu.Unlock()
	delete(shutdown.hooks, id)
}

func runShutdownHooks() {
	shutdown.mu.Lock()
	hooks := make([]func(), 0, len(shutdown.hooks))
	for _, fn := range shutdown.hooks {
		hooks = append(hooks, fn)
	}
	shutdown.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func watchSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		logger.Infof("Received signal %v, shutting down", sig)
		// 关停有界阻塞：最多等待每个监管器的stop_timeout
		runShutdownHooks()
		os.Exit(0)
	}()
}

/**
 * LifecycleGuard 把监管器的清理绑定到调用程序的生命周期
 * @property {ProcessSupervisor} sup - 被守护的监管器
 * @description
 * - 前置条件：每个监管器至多创建一个守护，守护实例归属单一调用方。
 *   对同一端口创建第二个守护会得到两个互不知晓的独立监管器，
 *   可能出现双重启动，这是已知的尖锐边界，本层不解决
 * - Go没有atexit：正常退出路径由调用方defer Close()承担；
 *   SIGINT/SIGTERM路径由进程级钩子注册表承担
 */
type LifecycleGuard struct {
	sup    *ProcessSupervisor
	hookID int

	mu     sync.Mutex
	closed bool
}

/**
 * NewLifecycleGuard 创建生命周期守护
 * @param {context.Context} ctx - 用于取消自动启动
 * @param {ProcessSupervisor} sup - 被守护的监管器
 * @param {bool} autoStart - 为true时在返回前同步启动服务器
 * @returns {LifecycleGuard} 守护实例，即使自动启动失败也有效，仍可Close()
 * @returns {error} 自动启动失败时返回ReasonServiceUnavailable
 */
func NewLifecycleGuard(ctx context.Context, sup *ProcessSupervisor, autoStart bool) (*LifecycleGuard, error) {
	g := &LifecycleGuard{sup: sup}
	g.hookID = registerShutdownHook(func() {
		sup.Stop()
	})

	if autoStart && !sup.Start(ctx) {
		// 启动失败进程句柄仍被持有，守护照常负责后续的Stop
		return g, models.NewFailure(models.ReasonServiceUnavailable,
			"icon server at %s failed to become healthy", sup.Endpoint())
	}
	return g, nil
}

/**
 * Close 解除守护并停止被守护的进程
 * @description
 * - 幂等，可以被defer和信号路径先后触达
 * - 正常退出路径的teardown入口，调用方应defer它
 */
func (g *LifecycleGuard) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	deregisterShutdownHook(g.hookID)
	g.sup.Stop()
}
