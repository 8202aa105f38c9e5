// Package trezor is a host-side client for a USB-attached hardware
// signing device: it discovers devices, opens an exclusive transport to
// one, and drives it through typed request/response exchanges that may
// be interrupted by on-device button, PIN, or passphrase prompts.
package trezor

import (
	"fmt"

	"github.com/go-trezor/trezor/link"
	"github.com/go-trezor/trezor/wire"
)

// Kind enumerates every way a call into this package can fail.
type Kind int

const (
	NoDeviceFound Kind = iota
	DeviceNotUnique
	TransportConnect
	BeginSession
	EndSession
	SendMessage
	ReceiveMessage
	UnknownHidVersion
	UnexpectedChunkSize
	ReadTimeout
	BadMagic
	BadSessionID
	UnexpectedSequenceNumber
	InvalidMessageType
	UnexpectedMessageType
	FailureResponse
	UnexpectedInteractionRequest
	InvalidEntropy
	UnsupportedNetwork
	MalformedTxRequest
	TxRequestInvalidIndex
	TxRequestUnknownTxid
	PsbtMissingInputTx
	InvalidPsbt
	CodecError
	CryptoError
)

var kindNames = map[Kind]string{
	NoDeviceFound:                "no device found",
	DeviceNotUnique:              "more than one device matched",
	TransportConnect:             "transport connect failed",
	BeginSession:                 "session begin failed",
	EndSession:                   "session end failed",
	SendMessage:                  "send message failed",
	ReceiveMessage:               "receive message failed",
	UnknownHidVersion:            "unknown HID sub-variant",
	UnexpectedChunkSize:          "unexpected chunk size",
	ReadTimeout:                  "read timeout",
	BadMagic:                     "bad magic",
	BadSessionID:                 "bad session id",
	UnexpectedSequenceNumber:     "unexpected sequence number",
	InvalidMessageType:           "invalid message type",
	UnexpectedMessageType:        "unexpected message type",
	FailureResponse:              "device returned a failure",
	UnexpectedInteractionRequest: "unexpected interaction request",
	InvalidEntropy:               "invalid entropy",
	UnsupportedNetwork:           "unsupported network",
	MalformedTxRequest:           "malformed tx request",
	TxRequestInvalidIndex:        "tx request index out of range",
	TxRequestUnknownTxid:         "tx request referenced an unknown txid",
	PsbtMissingInputTx:           "psbt input missing utxo data",
	InvalidPsbt:                  "invalid psbt",
	CodecError:                   "codec error",
	CryptoError:                  "crypto error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is the single error type this package returns. Code and Message
// are populated for FailureResponse (a Failure payload from the device);
// Err, when non-nil, is the lower-layer cause (a wire.FramingError,
// link sentinel error, or codec error).
type Error struct {
	Kind    Kind
	Code    uint32
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == FailureResponse:
		return fmt.Sprintf("trezor: %s (code %d): %s", e.Kind, e.Code, e.Message)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("trezor: %s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("trezor: %s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("trezor: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("trezor: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports Kind equality, so callers can write
// errors.Is(err, &trezor.Error{Kind: trezor.BadMagic}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// wrapTransportErr classifies a lower-layer error (from wire or link) by
// its own kind where one is known, falling back to the given phase kind
// for anything more generic (timeouts, raw USB I/O errors).
func wrapTransportErr(phase Kind, err error) *Error {
	if err == nil {
		return nil
	}
	var ferr *wire.FramingError
	if asFramingError(err, &ferr) {
		switch ferr.Kind {
		case wire.BadMagic:
			return wrapError(BadMagic, err)
		case wire.BadSessionID:
			return wrapError(BadSessionID, err)
		case wire.UnexpectedSequenceNumber:
			return wrapError(UnexpectedSequenceNumber, err)
		case wire.UnexpectedChunkSize:
			return wrapError(UnexpectedChunkSize, err)
		case wire.NoSession:
			return wrapError(phase, err)
		}
	}
	switch err {
	case link.ErrReadTimeout:
		return wrapError(ReadTimeout, err)
	case link.ErrUnexpectedChunkSize:
		return wrapError(UnexpectedChunkSize, err)
	case link.ErrUnknownHIDVersion:
		return wrapError(UnknownHidVersion, err)
	}
	return wrapError(phase, err)
}

func asFramingError(err error, target **wire.FramingError) bool {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if fe, ok := err.(*wire.FramingError); ok {
			*target = fe
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
