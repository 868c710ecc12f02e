// Package monitoring materializes the RFC 6022 netconf-state/sessions
// subtree as a built-in netconf.Handler for the get operation.
package monitoring

import (
	"context"
	"net"
	"strconv"
	"time"

	xml "github.com/andaru/flexml"

	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/netconf"
	"github.com/andaru/netconfd/session"
	"github.com/andaru/netconfd/transport"
)

// NS is the ietf-netconf-monitoring module namespace.
const NS = "urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"

var (
	nameNetconfState = xml.Name{Space: NS, Local: "netconf-state"}
	nameSessions     = xml.Name{Space: NS, Local: "sessions"}
	nameSession      = xml.Name{Space: NS, Local: "session"}
	nameSessionID    = xml.Name{Space: NS, Local: "session-id"}
	nameTransport    = xml.Name{Space: NS, Local: "transport"}
	nameUsername     = xml.Name{Space: NS, Local: "username"}
	nameSourceHost   = xml.Name{Space: NS, Local: "source-host"}
	nameLoginTime    = xml.Name{Space: NS, Local: "login-time"}
	nameInRPCs       = xml.Name{Space: NS, Local: "in-rpcs"}
	nameInBadRPCs    = xml.Name{Space: NS, Local: "in-bad-rpcs"}
	nameOutErrors    = xml.Name{Space: NS, Local: "out-rpc-errors"}
	nameOutNotifs    = xml.Name{Space: NS, Local: "out-notifications"}
	nameData         = xml.Name{Space: netconf.BaseNS, Local: "data"}
)

// sessionInfo is the subset of a running session's state RFC 6022
// exposes. A NetconfSession satisfies it directly.
type sessionInfo interface {
	ID() session.ID
	Transport() transport.Transport
	Username() string
	LoginTime() time.Time
	Counters() session.Counters
}

// SessionsHandler implements netconf.Handler for the get operation,
// returning the ietf-netconf-monitoring sessions subtree for every
// session tracked by Manager. Wire it into a Registry under
// (netconf.BaseNS, "get") to expose it; a real deployment will chain
// it with handlers for other config subtrees and merge results, which
// is outside this package's scope.
type SessionsHandler struct {
	Manager session.Manager
}

// Invoke builds the <data><netconf-state><sessions>...subtree.
func (h *SessionsHandler) Invoke(ctx context.Context, req *netconf.Request) (dom.Node, *netconf.RPCError, *netconf.Continuation) {
	data := dom.CreateElement(xml.StartElement{Name: nameData})
	state := dom.CreateElement(xml.StartElement{Name: nameNetconfState})
	sessions := dom.CreateElement(xml.StartElement{Name: nameSessions})

	for _, srv := range h.Manager.Sessions() {
		info, ok := srv.(sessionInfo)
		if !ok {
			continue
		}
		_ = sessions.AppendChild(sessionEntry(info))
	}

	_ = state.AppendChild(sessions)
	_ = data.AppendChild(state)
	return data, nil, nil
}

func sessionEntry(info sessionInfo) dom.Node {
	entry := dom.CreateElement(xml.StartElement{Name: nameSession})
	appendLeaf(entry, nameSessionID, strconv.FormatUint(uint64(info.ID()), 10))
	appendLeaf(entry, nameTransport, "netconf")
	appendLeaf(entry, nameUsername, info.Username())
	appendLeaf(entry, nameSourceHost, sourceHost(info.Transport()))
	if lt := info.LoginTime(); !lt.IsZero() {
		appendLeaf(entry, nameLoginTime, lt.UTC().Format(time.RFC3339))
	}
	counters := info.Counters()
	appendLeaf(entry, nameInRPCs, strconv.FormatUint(counters.InRPCs, 10))
	appendLeaf(entry, nameInBadRPCs, strconv.FormatUint(counters.InBadRPCs, 10))
	appendLeaf(entry, nameOutErrors, strconv.FormatUint(counters.OutRPCErrors, 10))
	appendLeaf(entry, nameOutNotifs, strconv.FormatUint(counters.OutNotifications, 10))
	return entry
}

// sourceHost extracts the peer address from a transport, when it
// exposes one (net.Conn-backed transports do via RemoteAddr).
func sourceHost(t transport.Transport) string {
	if conn, ok := t.(net.Conn); ok && conn.RemoteAddr() != nil {
		return conn.RemoteAddr().String()
	}
	return ""
}

func appendLeaf(parent dom.Node, name xml.Name, value string) {
	if value == "" {
		return
	}
	el := dom.CreateElement(xml.StartElement{Name: name})
	_ = el.AppendChild(dom.CreateText(xml.CharData(value)))
	_ = parent.AppendChild(el)
}
