package trezor

import (
	"errors"
	"fmt"

	"github.com/go-trezor/trezor/messages"
)

// transport is the narrow capability set Client needs from a
// transport.Transport: session lifecycle plus one message in, one
// message out. Declared locally so this package never has to import
// transport's concrete Kind/FramingVersion machinery.
type transport interface {
	SessionBegin() error
	SessionEnd() error
	WriteMessage(messageType uint32, payload []byte) error
	ReadMessage() (messageType uint32, payload []byte, err error)
	Close() error
}

// Client owns one Transport exclusively and serializes every call issued
// through it. It caches the Features snapshot from the most recent
// successful Initialize or GetFeatures.
type Client struct {
	tr       transport
	identity DeviceIdentity
	log      Logger

	features *messages.Features
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithLogger attaches a Logger; the default is a no-op sink.
func WithLogger(l Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// newClient wraps tr as a Client for identity and begins a session on it.
func newClient(tr transport, identity DeviceIdentity, opts ...ClientOption) (*Client, error) {
	c := &Client{tr: tr, identity: identity, log: nopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.tr.SessionBegin(); err != nil {
		return nil, wrapTransportErr(BeginSession, err)
	}
	return c, nil
}

// NewClient wraps tr (typically a *transport.Transport the caller just
// opened, which satisfies this interface structurally) as a Client,
// beginning a session against it. Used by the discovery package's
// Connect helpers, which live in their own package.
func NewClient(tr transport, identity DeviceIdentity, opts ...ClientOption) (*Client, error) {
	return newClient(tr, identity, opts...)
}

// Model reports the device model this Client was connected to.
func (c *Client) Model() Model { return c.identity.Model }

// Features returns the most recently cached Features snapshot, or nil if
// none has been cached yet or ClearSession has dropped it.
func (c *Client) Features() *messages.Features { return c.features }

// Close ends the session and releases the underlying transport.
func (c *Client) Close() error {
	if err := c.tr.SessionEnd(); err != nil {
		c.tr.Close()
		return wrapTransportErr(EndSession, err)
	}
	return c.tr.Close()
}

// callRaw writes req and reads back exactly one response message,
// without any interpretation of its type.
func (c *Client) callRaw(req messages.Message) (messages.MessageType, messages.Message, error) {
	payload, err := messages.Encode(req)
	if err != nil {
		return 0, nil, wrapError(CodecError, err)
	}
	c.log.Debugf("trezor: write %s (%d bytes)", req.Type(), len(payload))
	if err := c.tr.WriteMessage(uint32(req.Type()), payload); err != nil {
		return 0, nil, wrapTransportErr(SendMessage, err)
	}

	mt, respPayload, err := c.tr.ReadMessage()
	if err != nil {
		return 0, nil, wrapTransportErr(ReceiveMessage, err)
	}
	messageType := messages.MessageType(mt)
	c.log.Debugf("trezor: read %s (%d bytes)", messageType, len(respPayload))

	msg, err := messages.Decode(messageType, respPayload)
	if err != nil {
		var unsupported *messages.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return messageType, nil, wrapError(InvalidMessageType, err)
		}
		return messageType, nil, wrapError(CodecError, err)
	}
	return messageType, msg, nil
}

// call writes req and interprets the single response as a Response[T]:
// the expected success type is decoded via postprocess, any of the five
// interaction requests is wrapped in a re-enterable continuation with
// the same postprocess, a Failure payload is surfaced as the Failure
// variant, and anything else is a transport-level protocol error.
func call[T any](c *Client, req messages.Message, successType messages.MessageType, postprocess func(messages.Message) (T, error)) (Response[T], error) {
	messageType, msg, err := c.callRaw(req)
	if err != nil {
		return Response[T]{}, err
	}

	switch m := msg.(type) {
	case *messages.Failure:
		return Response[T]{failure: &FailureInfo{Code: m.Code, Message: m.Message}}, nil
	case *messages.ButtonRequest:
		c.log.Infof("trezor: awaiting button confirmation (%v)", m.Code)
		return Response[T]{buttonRequest: &ButtonRequest[T]{
			client: c, code: m.Code, data: m.Data,
			successType: successType, postprocess: postprocess,
		}}, nil
	case *messages.PinMatrixRequest:
		c.log.Infof("trezor: awaiting PIN entry (%v)", m.Type_)
		return Response[T]{pinMatrixRequest: &PinMatrixRequest[T]{
			client: c, kind: m.Type_,
			successType: successType, postprocess: postprocess,
		}}, nil
	case *messages.PassphraseRequest:
		c.log.Infof("trezor: awaiting passphrase entry (on-device=%v)", m.OnDevice)
		return Response[T]{passphraseRequest: &PassphraseRequest[T]{
			client: c, onDevice: m.OnDevice,
			successType: successType, postprocess: postprocess,
		}}, nil
	case *messages.PassphraseStateRequest:
		c.log.Infof("trezor: awaiting passphrase state ack")
		return Response[T]{passphraseStateRequest: &PassphraseStateRequest[T]{
			client: c, state: m.State,
			successType: successType, postprocess: postprocess,
		}}, nil
	case *messages.WordRequest:
		c.log.Infof("trezor: awaiting recovery word (%v)", m.Type_)
		return Response[T]{wordRequest: &WordRequest[T]{
			client: c, kind: m.Type_,
			successType: successType, postprocess: postprocess,
		}}, nil
	default:
		if messageType == successType {
			val, err := postprocess(msg)
			if err != nil {
				return Response[T]{}, err
			}
			return Response[T]{ok: &val}, nil
		}
		return Response[T]{}, newError(UnexpectedMessageType, "got %s, expected %s", messageType, successType)
	}
}

// initMessage sends Initialize and caches the returned Features.
func (c *Client) initMessage(sessionID []byte) (Response[*messages.Features], error) {
	resp, err := call(c, &messages.Initialize{SessionID: sessionID}, messages.MessageType_Features,
		func(msg messages.Message) (*messages.Features, error) {
			f := msg.(*messages.Features)
			return f, nil
		})
	if err != nil {
		return Response[*messages.Features]{}, err
	}
	if f, ok := resp.Ok(); ok {
		c.features = f
	}
	return resp, nil
}

// Initialize begins (or resumes, via sessionID) a session with the
// device and caches its Features. It is normally Ok; an interaction the
// device sends instead (e.g. a PassphraseRequest) is returned as the
// matching Response branch.
func (c *Client) Initialize(sessionID []byte) (Response[*messages.Features], error) {
	return c.initMessage(sessionID)
}

// Ping asks the device to echo message back.
func (c *Client) Ping(message string) (Response[string], error) {
	return call(c, &messages.Ping{Message: message}, messages.MessageType_Success,
		func(msg messages.Message) (string, error) {
			return msg.(*messages.Success).Message, nil
		})
}

// ChangePin sets, changes, or (if remove is true) clears the device PIN.
func (c *Client) ChangePin(remove bool) (Response[struct{}], error) {
	return call(c, &messages.ChangePin{Remove: remove}, messages.MessageType_Success,
		successUnit)
}

// WipeDevice resets the device to factory defaults.
func (c *Client) WipeDevice() (Response[struct{}], error) {
	return call(c, &messages.WipeDevice{}, messages.MessageType_Success, successUnit)
}

// ClearSession invalidates any cached secrets (PIN/passphrase) held by
// the device in RAM, without wiping it, and drops the locally cached
// Features snapshot since it may no longer reflect reality.
func (c *Client) ClearSession() (Response[struct{}], error) {
	resp, err := call(c, &messages.ClearSession{}, messages.MessageType_Success, successUnit)
	if err == nil {
		if _, ok := resp.Ok(); ok {
			c.features = nil
		}
	}
	return resp, err
}

// GetEntropy requests size raw bytes from the device's hardware RNG.
func (c *Client) GetEntropy(size uint32) (Response[[]byte], error) {
	return call(c, &messages.GetEntropy{Size: size}, messages.MessageType_Entropy,
		func(msg messages.Message) ([]byte, error) {
			return msg.(*messages.Entropy).Entropy, nil
		})
}

// ApplyFlags sets device-side feature flags (e.g. permanently disabling
// the passphrase cache). It never touches PIN/label/homescreen, which go
// through ApplySettings.
func (c *Client) ApplyFlags(flags uint32) (Response[struct{}], error) {
	return call(c, &messages.ApplyFlags{Flags: flags}, messages.MessageType_Success, successUnit)
}

// ApplySettings changes device-visible settings: label, language,
// homescreen, use-passphrase, and auto-lock delay.
func (c *Client) ApplySettings(settings messages.ApplySettings) (Response[struct{}], error) {
	return call(c, &settings, messages.MessageType_Success, successUnit)
}

// successUnit adapts a bare Success response into struct{} for
// operations whose result carries no information beyond "it worked".
func successUnit(msg messages.Message) (struct{}, error) {
	if _, ok := msg.(*messages.Success); !ok {
		return struct{}{}, fmt.Errorf("trezor: expected Success, got %T", msg)
	}
	return struct{}{}, nil
}
