// Package orchestrator boots the two pattoo-web agents in order.
//
// The API agent must report ready before the proxy agent is started, so the
// proxy never serves traffic in front of a backend that failed to come up.
// Any control failure moves the orchestrator to StateAborted and no further
// agent is started.
package orchestrator
