package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"icon-keeper/internal/config"
	"icon-keeper/internal/logger"
	"icon-keeper/internal/models"
)

/**
 * Initialize test environment
 * @description
 * - Initializes logger system so supervisor logging does not panic
 * - Called automatically when test package is loaded
 */
func init() {
	logger.InitLogger(&config.Config.Log, false)
}

// seqProber 按预设序列返回探测结果，超出序列后重复最后一个值
type seqProber struct {
	results []bool
	calls   int
}

func (p *seqProber) IsHealthy() bool {
	i := p.calls
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	p.calls++
	return p.results[i]
}

// fakeProcess serverProcess的测试替身，记录终止调用
type fakeProcess struct {
	pid        int
	done       chan error
	terminated int
	killed     int

	// exitOnTerminate为true时Terminate直接让进程退出
	exitOnTerminate bool
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, done: make(chan error, 1)}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Terminate() error {
	p.terminated++
	if p.exitOnTerminate {
		p.done <- nil
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.killed++
	p.done <- errors.New("killed")
	return nil
}

func (p *fakeProcess) Done() <-chan error { return p.done }

func (p *fakeProcess) Output() (string, string) { return "", "" }

/**
 * Build a supervisor with injected probe/spawn/sleep for zero-delay tests
 * @param {*testing.T} t - Testing framework instance
 * @param {Prober} probe - Injected health probe
 * @returns {*ProcessSupervisor} Supervisor under test
 * @returns {*int} Pointer to spawn call counter
 * @returns {*int} Pointer to sleep call counter
 */
func newTestSupervisor(t *testing.T, probe Prober) (*ProcessSupervisor, *int, *int) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.js"), []byte("// test entry\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.AppConfig{
		Icon: config.IconServerConfig{
			Host:      "localhost",
			Port:      3000,
			Command:   "node",
			ServerDir: dir,
		},
		Supervisor: config.SupervisorConfig{
			PollInterval:    500 * time.Millisecond,
			ManagedAttempts: 3,
			AdhocAttempts:   2,
			StopTimeout:     10 * time.Millisecond,
			ProbeTimeout:    2 * time.Second,
		},
	}

	spawns := 0
	sleeps := 0
	sup := NewProcessSupervisor(cfg)
	sup.probe = probe
	sup.spawn = func(command string, args []string, dir string) (serverProcess, error) {
		spawns++
		return newFakeProcess(1000 + spawns), nil
	}
	sup.sleep = func(time.Duration) { sleeps++ }
	return sup, &spawns, &sleeps
}

/**
 * Test that starting an already healthy server is a no-op
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Probe reports healthy before any process is spawned
 * - Start must return true without spawning anything
 */
func TestStartNoopWhenAlreadyHealthy(t *testing.T) {
	sup, spawns, sleeps := newTestSupervisor(t, &seqProber{results: []bool{true}})

	if !sup.Start(context.Background()) {
		t.Error("Start should return true when server is already healthy")
	}
	if *spawns != 0 {
		t.Errorf("Expected no spawn, got %d", *spawns)
	}
	if *sleeps != 0 {
		t.Errorf("Expected no sleep, got %d", *sleeps)
	}
}

/**
 * Test the fast path where the first poll already succeeds
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Gate probe fails, server is spawned, first poll succeeds
 * - No sleep may happen before the first poll
 */
func TestStartFirstPollSuccessSkipsSleep(t *testing.T) {
	sup, spawns, sleeps := newTestSupervisor(t, &seqProber{results: []bool{false, true}})

	if !sup.Start(context.Background()) {
		t.Error("Start should succeed when first poll reports healthy")
	}
	if *spawns != 1 {
		t.Errorf("Expected 1 spawn, got %d", *spawns)
	}
	if *sleeps != 0 {
		t.Errorf("First poll succeeded, expected no sleep, got %d", *sleeps)
	}
	if !sup.IsRunning() {
		t.Error("IsRunning should report true after successful start")
	}
}

/**
 * Test poll exhaustion behavior
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Probe never succeeds; Start must give up after managed_attempts polls
 * - The process handle stays owned so a later Stop can reclaim it
 */
func TestStartExhaustionKeepsHandle(t *testing.T) {
	sup, spawns, sleeps := newTestSupervisor(t, &seqProber{results: []bool{false}})

	ok, fail := sup.start(context.Background(), sup.ManagedPolicy())
	if ok {
		t.Error("Start should fail when probe never succeeds")
	}
	if models.ReasonOf(fail) != models.ReasonServiceUnavailable {
		t.Errorf("Expected service_unavailable, got %v", models.ReasonOf(fail))
	}
	if *spawns != 1 {
		t.Errorf("Expected 1 spawn, got %d", *spawns)
	}
	// 3次尝试之间睡2次
	if *sleeps != 2 {
		t.Errorf("Expected 2 sleeps between 3 attempts, got %d", *sleeps)
	}
	if sup.proc == nil {
		t.Error("Process handle must be kept after poll exhaustion")
	}
	if sup.Detail().Status != models.StatusError {
		t.Errorf("Expected error status, got %s", sup.Detail().Status)
	}

	// 耗尽后Stop仍能回收句柄
	sup.proc.(*fakeProcess).exitOnTerminate = true
	sup.Stop()
	if sup.proc != nil {
		t.Error("Stop should clear the process handle")
	}
}

/**
 * Test entry point resolution failure
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Neither server_path nor any default entry file exists
 * - Start must fail with config_error before spawning
 */
func TestStartMissingEntryPoint(t *testing.T) {
	sup, spawns, _ := newTestSupervisor(t, &seqProber{results: []bool{false}})
	sup.icon.ServerDir = t.TempDir()

	ok, fail := sup.start(context.Background(), sup.ManagedPolicy())
	if ok {
		t.Error("Start should fail without an entry point")
	}
	if models.ReasonOf(fail) != models.ReasonConfigError {
		t.Errorf("Expected config_error, got %v", models.ReasonOf(fail))
	}
	if *spawns != 0 {
		t.Errorf("Expected no spawn, got %d", *spawns)
	}
}

/**
 * Test entry point search order
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - index.js wins over mcp-server.js when both exist
 * - Explicit server_path bypasses the directory search
 */
func TestResolveEntryPointOrder(t *testing.T) {
	sup, _, _ := newTestSupervisor(t, &seqProber{results: []bool{false}})
	dir := t.TempDir()
	sup.icon.ServerDir = dir

	mcp := filepath.Join(dir, "mcp-server.js")
	os.WriteFile(mcp, []byte(""), 0644)
	entry, fail := sup.resolveEntryPoint()
	if fail != nil {
		t.Fatalf("Unexpected failure: %v", fail)
	}
	if entry != mcp {
		t.Errorf("Expected %s, got %s", mcp, entry)
	}

	index := filepath.Join(dir, "index.js")
	os.WriteFile(index, []byte(""), 0644)
	entry, _ = sup.resolveEntryPoint()
	if entry != index {
		t.Errorf("index.js should win over mcp-server.js, got %s", entry)
	}

	explicit := filepath.Join(dir, "custom.js")
	os.WriteFile(explicit, []byte(""), 0644)
	sup.icon.ServerPath = explicit
	entry, _ = sup.resolveEntryPoint()
	if entry != explicit {
		t.Errorf("Explicit server_path should win, got %s", entry)
	}

	sup.icon.ServerPath = filepath.Join(dir, "missing.js")
	if _, fail := sup.resolveEntryPoint(); models.ReasonOf(fail) != models.ReasonConfigError {
		t.Error("Missing explicit server_path should be a config_error")
	}
}

/**
 * Test that stopping without a process is a safe no-op
 * @param {*testing.T} t - Testing framework instance
 */
func TestStopWithoutProcess(t *testing.T) {
	sup, _, _ := newTestSupervisor(t, &seqProber{results: []bool{false}})

	sup.Stop()
	sup.Stop()
	if sup.proc != nil {
		t.Error("No process should be held")
	}
}

/**
 * Test graceful stop path
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Process exits on terminate; no kill may be issued
 */
func TestStopGraceful(t *testing.T) {
	sup, _, _ := newTestSupervisor(t, &seqProber{results: []bool{false, true}})
	if !sup.Start(context.Background()) {
		t.Fatal("Start should succeed")
	}
	proc := sup.proc.(*fakeProcess)
	proc.exitOnTerminate = true

	sup.Stop()
	if proc.terminated != 1 {
		t.Errorf("Expected 1 terminate, got %d", proc.terminated)
	}
	if proc.killed != 0 {
		t.Errorf("Graceful stop must not kill, got %d kills", proc.killed)
	}
	if sup.proc != nil {
		t.Error("Stop should clear the process handle")
	}
	if sup.Detail().Status != models.StatusStopped {
		t.Errorf("Expected stopped status, got %s", sup.Detail().Status)
	}
}

/**
 * Test stop escalation to forced kill
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Process ignores terminate; after stop_timeout exactly one kill follows
 */
func TestStopEscalatesToKill(t *testing.T) {
	sup, _, _ := newTestSupervisor(t, &seqProber{results: []bool{false, true}})
	if !sup.Start(context.Background()) {
		t.Fatal("Start should succeed")
	}
	proc := sup.proc.(*fakeProcess)

	sup.Stop()
	if proc.terminated != 1 {
		t.Errorf("Expected 1 terminate, got %d", proc.terminated)
	}
	if proc.killed != 1 {
		t.Errorf("Expected exactly 1 kill, got %d", proc.killed)
	}
	if sup.proc != nil {
		t.Error("Stop should clear the process handle even after escalation")
	}
}

/**
 * Test restart after the child exited on its own
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - A dead handle must not block a new spawn
 */
func TestStartRespawnsAfterExit(t *testing.T) {
	sup, spawns, _ := newTestSupervisor(t, &seqProber{results: []bool{false, true}})
	if !sup.Start(context.Background()) {
		t.Fatal("Start should succeed")
	}

	// 子进程自行崩溃
	sup.proc.(*fakeProcess).done <- errors.New("exit status 1")

	sup.probe = &seqProber{results: []bool{false, true}}
	if !sup.Start(context.Background()) {
		t.Error("Start should succeed after the old process died")
	}
	if *spawns != 2 {
		t.Errorf("Expected respawn, got %d spawns", *spawns)
	}
}

/**
 * Test cancellation during the poll loop
 * @param {*testing.T} t - Testing framework instance
 */
func TestStartCancelled(t *testing.T) {
	sup, _, _ := newTestSupervisor(t, &seqProber{results: []bool{false}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, fail := sup.start(ctx, sup.ManagedPolicy())
	if ok {
		t.Error("Start should fail when context is cancelled")
	}
	if models.ReasonOf(fail) != models.ReasonServiceUnavailable {
		t.Errorf("Expected service_unavailable, got %v", models.ReasonOf(fail))
	}
}
