package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"pattooweb/internal/agent"
	"pattooweb/internal/config"
	"pattooweb/internal/logging"
)

// State is the boot progress of an Orchestrator.
type State string

const (
	StateIdle          State = "idle"
	StateAPIStarting   State = "api_starting"
	StateAPIReady      State = "api_ready"
	StateProxyStarting State = "proxy_starting"
	StateProxyReady    State = "proxy_ready"
	StateAborted       State = "aborted"
)

// ErrAborted is matched by every AbortError.
var ErrAborted = errors.New("orchestration aborted")

// AbortError names the agent whose control call failed.
type AbortError struct {
	Agent string
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("start agent %s: %v", e.Agent, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

func (e *AbortError) Is(target error) bool { return target == ErrAborted }

// Controller starts one agent and returns once it is ready.
type Controller interface {
	Control(ctx context.Context, desc agent.Descriptor) error
}

// Shutdowner is implemented by controllers that can stop what they started.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Orchestrator starts the API agent, then the proxy agent.
type Orchestrator struct {
	cfg        *config.Config
	controller Controller
	handler    http.Handler
	logger     *slog.Logger
	bootID     string

	mu    sync.Mutex
	state State
}

// New builds an orchestrator. handler is served by the API agent.
func New(cfg *config.Config, controller Controller, handler http.Handler, logger *slog.Logger) *Orchestrator {
	bootID := uuid.NewString()
	return &Orchestrator{
		cfg:        cfg,
		controller: controller,
		handler:    handler,
		logger:     logging.NewComponentLogger(logger, "orchestrator").With(logging.String(logging.FieldRunID, bootID)),
		bootID:     bootID,
		state:      StateIdle,
	}
}

// BootID identifies this boot in logs.
func (o *Orchestrator) BootID() string {
	return o.bootID
}

// State returns the current boot state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Descriptors returns the API and proxy descriptors for this boot.
func (o *Orchestrator) Descriptors() (agent.Descriptor, agent.Descriptor) {
	apiName := o.cfg.Agent.Name
	proxyName := o.cfg.ProxyName()
	api := agent.Descriptor{
		Name:      apiName,
		ProxyName: proxyName,
		Handler:   o.handler,
		Listen:    o.cfg.APIAddress(),
		Config:    o.cfg,
	}
	proxy := agent.Descriptor{
		Name:     proxyName,
		Upstream: apiName,
		Listen:   o.cfg.PublicAddress(),
		Config:   o.cfg,
	}
	return api, proxy
}

// Start brings up the API agent and then the proxy agent.
func (o *Orchestrator) Start(ctx context.Context) error {
	api, proxy := o.Descriptors()

	o.transition(StateAPIStarting)
	if err := o.controller.Control(ctx, api); err != nil {
		return o.abort(api.Name, err)
	}
	o.transition(StateAPIReady)

	o.transition(StateProxyStarting)
	if err := o.controller.Control(ctx, proxy); err != nil {
		return o.abort(proxy.Name, err)
	}
	o.transition(StateProxyReady)
	return nil
}

// Run starts both agents and blocks until ctx is cancelled, then shuts the
// controller down when it supports that.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.Start(ctx); err != nil {
		o.shutdown(ctx)
		return err
	}
	o.logger.Info("pattoo-web started",
		logging.String(logging.FieldEventType, "boot_complete"),
		logging.String("public_address", o.cfg.PublicAddress()),
	)

	<-ctx.Done()
	o.logger.Info("pattoo-web shutting down")
	o.shutdown(ctx)
	return nil
}

func (o *Orchestrator) shutdown(ctx context.Context) {
	s, ok := o.controller.(Shutdowner)
	if !ok {
		return
	}
	if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
		o.logger.Warn("agent shutdown incomplete", logging.Error(err))
	}
}

func (o *Orchestrator) transition(next State) {
	o.mu.Lock()
	prev := o.state
	o.state = next
	o.mu.Unlock()
	o.logger.Debug("state transition",
		logging.String(logging.FieldEventType, "state_transition"),
		logging.String("from", string(prev)),
		logging.String("to", string(next)),
	)
}

func (o *Orchestrator) abort(name string, err error) error {
	o.transition(StateAborted)
	o.logger.Error("agent failed to start",
		logging.String(logging.FieldAgent, name),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the agent log and the configured listen addresses"),
	)
	return &AbortError{Agent: name, Err: err}
}
