package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"pattooweb/internal/logging"
)

var (
	// ErrAlreadyRunning is returned when another process holds the agent lock.
	ErrAlreadyRunning = errors.New("agent already running")
	// ErrUpstreamNotRunning is returned when a proxy's upstream is not in the runtime.
	ErrUpstreamNotRunning = errors.New("upstream agent not running")
	// ErrNotReady is returned when an agent does not answer its status probe in time.
	ErrNotReady = errors.New("agent not ready")
)

type instance struct {
	desc     Descriptor
	lock     *flock.Flock
	lockPath string
	pidPath  string
	listener net.Listener
	server   *http.Server
}

// Runtime starts and stops agents in this process.
type Runtime struct {
	logger *slog.Logger
	client *http.Client

	mu     sync.Mutex
	agents []*instance
}

// NewRuntime creates an empty runtime.
func NewRuntime(logger *slog.Logger) *Runtime {
	return &Runtime{
		logger: logging.NewComponentLogger(logger, "agent"),
		client: &http.Client{Timeout: 2 * time.Second},
	}
}

// Control starts the described agent and returns once it answers its status
// probe. On any failure the agent is torn down before returning.
func (r *Runtime) Control(ctx context.Context, desc Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	logger := r.logger.With(logging.String(logging.FieldAgent, desc.Name))

	r.mu.Lock()
	if r.find(desc.Name) != nil {
		r.mu.Unlock()
		return fmt.Errorf("%s: %w", desc.Name, ErrAlreadyRunning)
	}
	var upstreamAddr string
	if desc.IsProxy() {
		upstream := r.find(desc.Upstream)
		if upstream == nil {
			r.mu.Unlock()
			return fmt.Errorf("%s -> %s: %w", desc.Name, desc.Upstream, ErrUpstreamNotRunning)
		}
		upstreamAddr = upstream.listener.Addr().String()
	}
	r.mu.Unlock()

	cfg := desc.Config
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	inst := &instance{
		desc:     desc,
		lockPath: cfg.LockPath(desc.Name),
		pidPath:  cfg.PIDPath(desc.Name),
	}
	inst.lock = flock.New(inst.lockPath)
	ok, err := inst.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", inst.lockPath, err)
	}
	if !ok {
		return fmt.Errorf("%s (lock %s): %w", desc.Name, inst.lockPath, ErrAlreadyRunning)
	}

	handler := desc.Handler
	if desc.IsProxy() {
		handler, err = newProxyHandler(upstreamAddr, logger)
		if err != nil {
			r.release(inst, logger)
			return err
		}
	}

	inst.listener, err = net.Listen("tcp", desc.Listen)
	if err != nil {
		r.release(inst, logger)
		return fmt.Errorf("%s listen %s: %w", desc.Name, desc.Listen, err)
	}
	inst.server = newHTTPServer(handler)
	go serve(inst.server, inst.listener, logger)

	if err := writePIDFile(inst.pidPath); err != nil {
		r.teardown(inst, logger)
		return fmt.Errorf("write pid file: %w", err)
	}

	addr := inst.listener.Addr().String()
	readyCtx, cancel := context.WithTimeout(ctx, cfg.ReadyTimeout())
	defer cancel()
	if err := waitReady(readyCtx, r.client, addr); err != nil {
		r.teardown(inst, logger)
		return fmt.Errorf("%s at %s: %w: %v", desc.Name, addr, ErrNotReady, err)
	}

	r.mu.Lock()
	r.agents = append(r.agents, inst)
	r.mu.Unlock()

	logger.Info("agent ready",
		logging.String(logging.FieldEventType, "agent_ready"),
		logging.String("address", addr),
		logging.String("upstream", desc.Upstream),
	)
	return nil
}

// Address returns the bound address of a running agent.
func (r *Runtime) Address(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst := r.find(name)
	if inst == nil {
		return "", false
	}
	return inst.listener.Addr().String(), true
}

// Running returns the names of running agents in start order.
func (r *Runtime) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.agents))
	for _, inst := range r.agents {
		names = append(names, inst.desc.Name)
	}
	return names
}

// Shutdown stops every agent in reverse start order. Each agent gets the
// configured shutdown timeout.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	agents := r.agents
	r.agents = nil
	r.mu.Unlock()

	var errs []error
	for i := len(agents) - 1; i >= 0; i-- {
		inst := agents[i]
		logger := r.logger.With(logging.String(logging.FieldAgent, inst.desc.Name))
		shutdownCtx, cancel := context.WithTimeout(ctx, inst.desc.Config.ShutdownTimeout())
		if err := inst.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", inst.desc.Name, err))
			_ = inst.server.Close()
		}
		cancel()
		r.release(inst, logger)
		logger.Info("agent stopped", logging.String(logging.FieldEventType, "agent_stopped"))
	}
	return errors.Join(errs...)
}

func (r *Runtime) find(name string) *instance {
	for _, inst := range r.agents {
		if inst.desc.Name == name {
			return inst
		}
	}
	return nil
}

func (r *Runtime) teardown(inst *instance, logger *slog.Logger) {
	if inst.server != nil {
		_ = inst.server.Close()
	}
	r.release(inst, logger)
}

func (r *Runtime) release(inst *instance, logger *slog.Logger) {
	if err := os.Remove(inst.pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("remove pid file failed", logging.Error(err))
	}
	if err := inst.lock.Unlock(); err != nil {
		logger.Warn("release agent lock failed", logging.Error(err))
	}
	_ = os.Remove(inst.lockPath)
}

func writePIDFile(path string) error {
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
