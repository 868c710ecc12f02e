package session

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/netconf"
	"github.com/andaru/netconfd/transport"
	"github.com/andaru/netconfd/xmlcodec"
	"github.com/andaru/netconfd/yangmodel"
)

// NetconfState is a NETCONF session's position in its protocol
// lifecycle.
type NetconfState int

// NetconfState values, in the order a session passes through them.
const (
	StateInit NetconfState = iota
	StateHelloWait
	StateRunning
	StateClosing
	StateClosed
)

func (s NetconfState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateHelloWait:
		return "hello-wait"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Counters are the per-session activity counts RFC 6022's
// netconf-state/sessions/session entry reports.
type Counters struct {
	InRPCs           uint64
	InBadRPCs        uint64
	OutRPCErrors     uint64
	OutNotifications uint64
}

// NetconfSession is the NETCONF-specific Server: it owns the
// transport, the capability-negotiated framing, the dispatch
// Registry, and the state machine its request loop runs against.
type NetconfSession struct {
	id         ID
	tr         transport.ServerTransport
	registry   *netconf.Registry
	modules    *yangmodel.Collection
	serverCaps []string

	reader *transport.FrameReader
	writer *transport.FrameWriter

	loginTime time.Time

	mu       sync.Mutex
	state    NetconfState
	counters Counters

	done chan error
	once sync.Once
}

// NetconfOption configures a NetconfSession constructed through
// NewNetconfAcceptor's Accept.
type NetconfOption func(*NetconfSession)

// WithServerCapabilities appends additional capability URIs (beyond
// the NETCONF 1.0/1.1 base capabilities) to the <hello> a session
// advertises.
func WithServerCapabilities(caps ...string) NetconfOption {
	return func(s *NetconfSession) { s.serverCaps = append(s.serverCaps, caps...) }
}

// ID returns the session identifier assigned by the session manager.
func (s *NetconfSession) ID() ID { return s.id }

// Type reports this is always a server session.
func (s *NetconfSession) Type() Type { return TypeServer }

// Transport returns the underlying server transport.
func (s *NetconfSession) Transport() transport.Transport { return s.tr }

// Wait returns the channel closed when the session ends.
func (s *NetconfSession) Wait() <-chan error { return s.done }

// Release tears the session down, closing its transport once.
func (s *NetconfSession) Release() {
	s.once.Do(func() {
		s.setState(StateClosed)
		_ = s.tr.Close()
		close(s.done)
	})
}

// State reports the session's current protocol state.
func (s *NetconfSession) State() NetconfState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *NetconfSession) setState(st NetconfState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Counters returns a snapshot of the session's activity counters.
func (s *NetconfSession) Counters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// LoginTime reports when the session completed hello exchange.
func (s *NetconfSession) LoginTime() time.Time { return s.loginTime }

// Username reports the authenticated transport username.
func (s *NetconfSession) Username() string { return s.tr.Username() }

// Serve drives the session's protocol loop: hello exchange, then
// <rpc> request/reply until the transport closes or close-session is
// invoked. It returns once the session reaches StateClosed.
func (s *NetconfSession) Serve(ctx context.Context) error {
	defer s.Release()

	s.reader = transport.NewFrameReader(s.tr)
	s.writer = transport.NewFrameWriter(s.tr)

	if err := s.exchangeHello(); err != nil {
		return err
	}

	s.setState(StateRunning)
	for {
		if s.State() != StateRunning {
			return nil
		}
		msg, err := s.reader.ReadMessage()
		if err != nil {
			s.setState(StateClosing)
			return err
		}
		s.handleMessage(ctx, msg)
	}
}

func (s *NetconfSession) exchangeHello() error {
	s.setState(StateHelloWait)

	caps := append([]string{netconf.BaseCapability10, netconf.BaseCapability11}, s.serverCaps...)
	hello := netconf.Hello{SessionID: uint32(s.id), Capabilities: caps}
	out := xmlcodec.Pretty(hello.ToNode(), -1)
	if err := s.writer.WriteMessage([]byte(out)); err != nil {
		return errors.Wrap(err, "session: write hello")
	}

	msg, err := s.reader.ReadMessage()
	if err != nil {
		return errors.Wrap(err, "session: read hello")
	}
	res, err := xmlcodec.Parse(bytes.NewReader(msg))
	if err != nil {
		return errors.Wrap(err, "session: decode hello")
	}
	root := firstElement(res.Node)
	if root == nil {
		return errors.New("session: empty hello")
	}
	peer := netconf.ParseHello(root)
	if !peer.HasCapability(netconf.BaseCapability10) && !peer.HasCapability(netconf.BaseCapability11) {
		return errors.New("session: peer hello missing base capability")
	}
	if peer.HasCapability(netconf.BaseCapability11) {
		if framer, ok := s.tr.(transport.RFC6242Framer); ok {
			_ = framer.EnableChunkedFraming()
		}
		_ = s.reader.EnableChunkedFraming()
		_ = s.writer.EnableChunkedFraming()
	}
	s.loginTime = time.Now()
	return nil
}

// handleMessage parses and dispatches one <rpc> message, writing its
// reply (or an error reply, if the message itself was malformed or
// its operation unsupported) before returning.
func (s *NetconfSession) handleMessage(ctx context.Context, msg []byte) {
	s.bumpInRPC()

	result, err := xmlcodec.Parse(bytes.NewReader(msg),
		xmlcodec.WithBindMode(xmlcodec.BindRPC, s.modules))
	if err != nil {
		s.bumpBadRPC()
		s.reply(netconf.ReplyError(nil, netconf.NewProtocolError(
			netconf.ErrTagMalformedMessage, "message is not well-formed XML")))
		return
	}
	root := firstElement(result.Node)
	if root == nil {
		s.bumpBadRPC()
		s.reply(netconf.ReplyError(nil, netconf.NewProtocolError(
			netconf.ErrTagMalformedMessage, "message has no top-level element")))
		return
	}
	req, perr := netconf.ParseRequest(root)
	if perr != nil {
		s.bumpBadRPC()
		s.reply(netconf.ReplyError(nil, perr))
		return
	}

	if !result.BoundOK {
		s.bumpBadRPC()
		s.reply(netconf.ReplyError(req, result.Errors...))
		return
	}

	if req.OpName.Local == "close-session" {
		s.reply(netconf.ReplyOK(req))
		s.setState(StateClosing)
		return
	}

	h := s.registry.Lookup(req.OpName.Space, req.OpName.Local)
	if h == nil {
		s.bumpBadRPC()
		s.reply(netconf.ReplyError(req, netconf.NewAppError(
			netconf.ErrTagOperationNotSupported, "unsupported operation "+req.OpName.Local)))
		return
	}

	body, rerr, cont := h.Invoke(ctx, req)
	if cont != nil {
		// NetconfSession has no Reactor: it calls Resume synchronously,
		// and a further Continuation returned by Resume is discarded.
		body, rerr, _ = cont.Resume(ctx)
	}
	if rerr != nil {
		s.bumpRPCError()
		s.reply(netconf.ReplyError(req, rerr))
		return
	}
	s.reply(netconf.ReplyResult(req, body))
}

func (s *NetconfSession) reply(reply dom.Node) {
	out := xmlcodec.Pretty(reply, -1)
	_ = s.writer.WriteMessage([]byte(out))
}

// firstElement returns n's first element child, or n itself if n is
// already an element (a parsed message's root is a dom.Document
// wrapping exactly one top-level element).
func firstElement(n dom.Node) dom.Node {
	if n == nil {
		return nil
	}
	if n.NodeType() == dom.NodeTypeElement {
		return n
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() == dom.NodeTypeElement {
			return c
		}
	}
	return nil
}

func (s *NetconfSession) bumpInRPC() {
	s.mu.Lock()
	s.counters.InRPCs++
	s.mu.Unlock()
}

func (s *NetconfSession) bumpBadRPC() {
	s.mu.Lock()
	s.counters.InBadRPCs++
	s.mu.Unlock()
}

func (s *NetconfSession) bumpRPCError() {
	s.mu.Lock()
	s.counters.OutRPCErrors++
	s.mu.Unlock()
}

// netconfAcceptor implements Acceptor, producing NetconfSessions for
// any ServerTransport it is given (NETCONF has no transport type of
// its own to reject; SSH/TLS policy, if any, lives one layer up).
type netconfAcceptor struct {
	registry *netconf.Registry
	modules  *yangmodel.Collection
	opts     []NetconfOption
}

// NewNetconfAcceptor returns an Acceptor that builds NetconfSessions
// dispatching through registry against modules's RPC schemas.
func NewNetconfAcceptor(registry *netconf.Registry, modules *yangmodel.Collection, opts ...NetconfOption) Acceptor {
	return &netconfAcceptor{registry: registry, modules: modules, opts: opts}
}

func (a *netconfAcceptor) Supported(transport.ServerTransport) bool { return true }

func (a *netconfAcceptor) Accept(ctx context.Context, t transport.ServerTransport, id ID) (Server, error) {
	s := &NetconfSession{
		id:       id,
		tr:       t,
		registry: a.registry,
		modules:  a.modules,
		done:     make(chan error, 1),
	}
	for _, opt := range a.opts {
		opt(s)
	}
	go func() { _ = s.Serve(ctx) }()
	return s, nil
}

var (
	_ Server   = &NetconfSession{}
	_ Acceptor = &netconfAcceptor{}
)
