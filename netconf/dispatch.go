package netconf

import (
	"context"

	"github.com/andaru/netconfd/dom"
)

// Handler implements one registered RPC operation.
type Handler interface {
	// Invoke processes req and returns the reply body to wrap per the
	// operation's usual envelope (ReplyOK/ReplyData/ReplyResult, chosen
	// by the caller), or an RPCError to wrap with ReplyError. Invoke
	// may instead return a non-nil Continuation, suspending the
	// request; the caller later calls its Resume function for the result.
	Invoke(ctx context.Context, req *Request) (dom.Node, *RPCError, *Continuation)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) (dom.Node, *RPCError, *Continuation)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, req *Request) (dom.Node, *RPCError, *Continuation) {
	return f(ctx, req)
}

// Continuation represents a suspended RPC invocation, registered with
// a Reactor until the operation it represents can complete. The
// concrete poller that wakes a Continuation (socket readiness, a
// timer, a backend callback) is out of scope here; Resume is called
// by whatever component owns that wakeup.
type Continuation struct {
	// Resume is called once whatever condition the handler suspended
	// on is satisfied. It returns the same three-way result Invoke
	// would have returned directly.
	Resume func(ctx context.Context) (dom.Node, *RPCError, *Continuation)
}

// Reactor suspends and resumes Continuation values on behalf of a
// session whose handler could not complete synchronously.
type Reactor interface {
	Suspend(*Continuation)
	Resume(*Continuation)
}

// Registry maps (namespace, local-name) RPC operation names to their
// Handler, the lookup table spec.md's RPC dispatch uses.
type Registry struct {
	handlers map[regKey]Handler
}

type regKey struct{ namespace, local string }

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{handlers: map[regKey]Handler{}} }

// Register associates h with the operation named (namespace, local).
// A later call for the same key replaces the handler.
func (r *Registry) Register(namespace, local string, h Handler) {
	r.handlers[regKey{namespace, local}] = h
}

// Lookup returns the handler registered for (namespace, local), or
// nil if none is registered.
func (r *Registry) Lookup(namespace, local string) Handler {
	return r.handlers[regKey{namespace, local}]
}
