package agent

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pattooweb/internal/config"
)

// ErrInvalidDescriptor is returned for descriptors Control cannot start.
var ErrInvalidDescriptor = errors.New("invalid agent descriptor")

// Descriptor names one agent to start.
type Descriptor struct {
	// Name identifies the agent and its lock and PID files.
	Name string
	// ProxyName is the name of the proxy agent fronting this one, if any.
	ProxyName string
	// Handler serves requests. Ignored when Upstream is set.
	Handler http.Handler
	// Upstream names a running agent to forward requests to.
	Upstream string
	// Listen is the host:port to bind.
	Listen string
	Config *config.Config
}

// Validate reports whether the descriptor is complete.
func (d Descriptor) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	case d.Config == nil:
		return fmt.Errorf("%w: %s: config is required", ErrInvalidDescriptor, d.Name)
	case strings.TrimSpace(d.Listen) == "":
		return fmt.Errorf("%w: %s: listen address is required", ErrInvalidDescriptor, d.Name)
	case d.Upstream == "" && d.Handler == nil:
		return fmt.Errorf("%w: %s: handler or upstream is required", ErrInvalidDescriptor, d.Name)
	case d.Upstream == d.Name:
		return fmt.Errorf("%w: %s: agent cannot proxy to itself", ErrInvalidDescriptor, d.Name)
	}
	return nil
}

// IsProxy reports whether the agent forwards to an upstream agent.
func (d Descriptor) IsProxy() bool {
	return d.Upstream != ""
}
