// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

/*
#cgo pkg-config: libzmq
#include <zmq.h>
*/
import "C"

// ContextOption identifies an integer-valued context option (spec.md §6).
type ContextOption int

const (
	CtxIOThreads         ContextOption = C.ZMQ_IO_THREADS
	CtxMaxSockets        ContextOption = C.ZMQ_MAX_SOCKETS
	CtxIPv6              ContextOption = C.ZMQ_IPV6
	CtxBlocky            ContextOption = C.ZMQ_BLOCKY
	CtxThreadSchedPolicy ContextOption = C.ZMQ_THREAD_SCHED_POLICY
	CtxThreadPriority    ContextOption = C.ZMQ_THREAD_PRIORITY
	CtxMaxMsgSize        ContextOption = C.ZMQ_MAX_MSGSZ
)

// optKind classifies how a SocketOption's value is marshalled across the
// engine's untyped void*+length option API (spec.md §9 "Dynamic
// option/value typing"). This mechanical mapping is intentionally the only
// place in the package that is a flat per-option table.
type optKind int

const (
	optInt optKind = iota
	optInt64
	optBytes
	optString
	optBool
)

// SocketOption identifies one socket option from the flat catalogue named
// in spec.md §6. Every option additionally has a known value kind (see
// optKind) so Socket.SetOption/GetOption can marshal correctly without the
// caller having to pick the right typed accessor by hand.
type SocketOption struct {
	code int
	kind optKind
	// maxLen bounds the scratch buffer used for bytes/string options.
	maxLen int
}

// Socket options (spec.md §6's flat catalogue — a structural binding, not
// an exhaustively hand-curated one; new engine options can be added here
// without touching any other file).
var (
	OptLinger            = SocketOption{code: C.ZMQ_LINGER, kind: optInt}
	OptSendHWM           = SocketOption{code: C.ZMQ_SNDHWM, kind: optInt}
	OptRecvHWM           = SocketOption{code: C.ZMQ_RCVHWM, kind: optInt}
	OptSendTimeout       = SocketOption{code: C.ZMQ_SNDTIMEO, kind: optInt}
	OptRecvTimeout       = SocketOption{code: C.ZMQ_RCVTIMEO, kind: optInt}
	OptSendBuffer        = SocketOption{code: C.ZMQ_SNDBUF, kind: optInt}
	OptRecvBuffer        = SocketOption{code: C.ZMQ_RCVBUF, kind: optInt}
	OptRoutingID         = SocketOption{code: C.ZMQ_ROUTING_ID, kind: optBytes, maxLen: 255}
	OptSubscribe         = SocketOption{code: C.ZMQ_SUBSCRIBE, kind: optBytes, maxLen: 0}
	OptUnsubscribe       = SocketOption{code: C.ZMQ_UNSUBSCRIBE, kind: optBytes, maxLen: 0}
	OptCurveServer       = SocketOption{code: C.ZMQ_CURVE_SERVER, kind: optBool}
	OptCurveSecretKey    = SocketOption{code: C.ZMQ_CURVE_SECRETKEY, kind: optBytes, maxLen: 32}
	OptCurvePublicKey    = SocketOption{code: C.ZMQ_CURVE_PUBLICKEY, kind: optBytes, maxLen: 32}
	OptCurveServerKey    = SocketOption{code: C.ZMQ_CURVE_SERVERKEY, kind: optBytes, maxLen: 32}
	OptPlainUsername     = SocketOption{code: C.ZMQ_PLAIN_USERNAME, kind: optString, maxLen: 255}
	OptPlainPassword     = SocketOption{code: C.ZMQ_PLAIN_PASSWORD, kind: optString, maxLen: 255}
	OptZapDomain         = SocketOption{code: C.ZMQ_ZAP_DOMAIN, kind: optString, maxLen: 255}
	OptTCPKeepalive      = SocketOption{code: C.ZMQ_TCP_KEEPALIVE, kind: optInt}
	OptTCPKeepaliveIdle  = SocketOption{code: C.ZMQ_TCP_KEEPALIVE_IDLE, kind: optInt}
	OptTCPKeepaliveCnt   = SocketOption{code: C.ZMQ_TCP_KEEPALIVE_CNT, kind: optInt}
	OptTCPKeepaliveIntvl = SocketOption{code: C.ZMQ_TCP_KEEPALIVE_INTVL, kind: optInt}
	OptReconnectIvl      = SocketOption{code: C.ZMQ_RECONNECT_IVL, kind: optInt}
	OptReconnectIvlMax   = SocketOption{code: C.ZMQ_RECONNECT_IVL_MAX, kind: optInt}
	OptImmediate         = SocketOption{code: C.ZMQ_IMMEDIATE, kind: optBool}
	OptRouterMandatory   = SocketOption{code: C.ZMQ_ROUTER_MANDATORY, kind: optBool}
	OptRouterHandover    = SocketOption{code: C.ZMQ_ROUTER_HANDOVER, kind: optBool}
	OptXPubVerbose       = SocketOption{code: C.ZMQ_XPUB_VERBOSE, kind: optBool}
	OptProbeRouter       = SocketOption{code: C.ZMQ_PROBE_ROUTER, kind: optBool}
	OptReqCorrelate      = SocketOption{code: C.ZMQ_REQ_CORRELATE, kind: optBool}
	OptReqRelaxed        = SocketOption{code: C.ZMQ_REQ_RELAXED, kind: optBool}
	OptConflate          = SocketOption{code: C.ZMQ_CONFLATE, kind: optBool}
	OptTOS               = SocketOption{code: C.ZMQ_TOS, kind: optInt}
	OptHandshakeIvl      = SocketOption{code: C.ZMQ_HANDSHAKE_IVL, kind: optInt}
	OptHeartbeatIvl      = SocketOption{code: C.ZMQ_HEARTBEAT_IVL, kind: optInt}
	OptHeartbeatTTL      = SocketOption{code: C.ZMQ_HEARTBEAT_TTL, kind: optInt}
	OptHeartbeatTimeout  = SocketOption{code: C.ZMQ_HEARTBEAT_TIMEOUT, kind: optInt}
	OptConnectTimeout    = SocketOption{code: C.ZMQ_CONNECT_TIMEOUT, kind: optInt}
	OptMaxMsgSize        = SocketOption{code: C.ZMQ_MAXMSGSIZE, kind: optInt64}

	// Read-only options.
	OptRcvMore      = SocketOption{code: C.ZMQ_RCVMORE, kind: optBool}
	OptFD           = SocketOption{code: C.ZMQ_FD, kind: optInt}
	OptEvents       = SocketOption{code: C.ZMQ_EVENTS, kind: optInt}
	OptType         = SocketOption{code: C.ZMQ_TYPE, kind: optInt}
	OptLastEndpoint = SocketOption{code: C.ZMQ_LAST_ENDPOINT, kind: optString, maxLen: 256}
	OptMechanism    = SocketOption{code: C.ZMQ_MECHANISM, kind: optInt}
	OptThreadSafe   = SocketOption{code: C.ZMQ_THREAD_SAFE, kind: optBool}
)

// SetOption sets a socket option using the marshalling implied by opt's
// kind. Pass an int, int64, []byte, string, or bool matching opt's kind;
// a mismatched type returns ErrInvalidArgument.
func (s *Socket) SetOption(opt SocketOption, value any) error {
	h, err := s.rawHandle()
	if err != nil {
		return err
	}
	switch opt.kind {
	case optInt:
		v, ok := value.(int)
		if !ok {
			return ErrInvalidArgument
		}
		return engineSocketSetOptInt(h, opt.code, v)
	case optInt64:
		v, ok := value.(int64)
		if !ok {
			return ErrInvalidArgument
		}
		return engineSocketSetOptInt64(h, opt.code, v)
	case optBytes:
		v, ok := value.([]byte)
		if !ok {
			return ErrInvalidArgument
		}
		return engineSocketSetOptBytes(h, opt.code, v)
	case optString:
		v, ok := value.(string)
		if !ok {
			return ErrInvalidArgument
		}
		return engineSocketSetOptString(h, opt.code, v)
	case optBool:
		v, ok := value.(bool)
		if !ok {
			return ErrInvalidArgument
		}
		iv := 0
		if v {
			iv = 1
		}
		return engineSocketSetOptInt(h, opt.code, iv)
	default:
		return ErrInvalidArgument
	}
}

// GetOption reads a socket option, returning a value of the Go type implied
// by opt's kind (int, int64, []byte, string, or bool).
func (s *Socket) GetOption(opt SocketOption) (any, error) {
	h, err := s.rawHandle()
	if err != nil {
		return nil, err
	}
	switch opt.kind {
	case optInt:
		return engineSocketGetOptInt(h, opt.code)
	case optInt64:
		return engineSocketGetOptInt64(h, opt.code)
	case optBytes:
		maxLen := opt.maxLen
		if maxLen == 0 {
			maxLen = 255
		}
		return engineSocketGetOptBytes(h, opt.code, maxLen)
	case optString:
		return engineSocketGetOptString(h, opt.code, opt.maxLen)
	case optBool:
		v, err := engineSocketGetOptInt(h, opt.code)
		if err != nil {
			return nil, err
		}
		return v != 0, nil
	default:
		return nil, ErrInvalidArgument
	}
}

// HasMore reads the read-only rcvmore option: whether the most recently
// received frame on s had its SendMore bit set (spec.md §4.5 "HasMore
// semantics").
func (s *Socket) HasMore() (bool, error) {
	v, err := s.GetOption(OptRcvMore)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
