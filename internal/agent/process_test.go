package agent_test

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"pattooweb/internal/agent"
	"pattooweb/internal/testsupport"
)

func startChild(t *testing.T, script string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command("/bin/sh", "-c", script)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		<-done
	})
	return cmd
}

func TestStopTerminatesProcess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	child := startChild(t, "exec sleep 30")
	pidPath := cfg.PIDPath("child")
	lockPath := cfg.LockPath("child")
	testsupport.WriteText(t, pidPath, strconv.Itoa(child.Process.Pid)+"\n")
	testsupport.WriteText(t, lockPath, "")

	result, err := agent.Stop(pidPath, lockPath, 5*time.Second)
	if err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if result.PID != child.Process.Pid || result.ForcedKill {
		t.Fatalf("unexpected result %#v", result)
	}
	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("expected pid file removed, got %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Fatalf("expected lock file removed, got %v", err)
	}
}

func TestStopForceKillsAfterGrace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	child := startChild(t, "trap '' TERM; while true; do sleep 0.1; done")
	time.Sleep(200 * time.Millisecond)
	pidPath := cfg.PIDPath("stubborn")
	testsupport.WriteText(t, pidPath, strconv.Itoa(child.Process.Pid))

	result, err := agent.Stop(pidPath, "", 300*time.Millisecond)
	if err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if !result.ForcedKill {
		t.Fatalf("expected forced kill, got %#v", result)
	}
}

func TestStopWithoutPIDFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := agent.Stop(cfg.PIDPath("absent"), "", time.Second); !errors.Is(err, agent.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}
