package trezor

import "github.com/go-trezor/trezor/messages"

// ButtonRequest is a continuation that borrows the Client mutably until
// Ack is called: the device is waiting for the user to press its
// button. Dropping it without acking leaves the device mid-protocol.
type ButtonRequest[T any] struct {
	client      *Client
	code        messages.ButtonRequestType
	data        string
	successType messages.MessageType
	postprocess func(messages.Message) (T, error)
}

// Code reports why the device is asking for a button confirmation.
func (b *ButtonRequest[T]) Code() messages.ButtonRequestType { return b.code }

// Ack confirms the button request and resumes the call.
func (b *ButtonRequest[T]) Ack() (Response[T], error) {
	return call(b.client, &messages.ButtonAck{}, b.successType, b.postprocess)
}

// PinMatrixRequest is a continuation asking the host to relay a PIN,
// entered against the scrambled keypad layout the device is currently
// showing.
type PinMatrixRequest[T any] struct {
	client      *Client
	kind        messages.PinMatrixRequestType
	successType messages.MessageType
	postprocess func(messages.Message) (T, error)
}

// Kind reports which PIN the device is asking for (current, new, or
// new-confirm).
func (p *PinMatrixRequest[T]) Kind() messages.PinMatrixRequestType { return p.kind }

// Ack relays pin, a digit-per-keypad-position string, and resumes the call.
func (p *PinMatrixRequest[T]) Ack(pin string) (Response[T], error) {
	return call(p.client, &messages.PinMatrixAck{Pin: pin}, p.successType, p.postprocess)
}

// PassphraseRequest is a continuation asking the host either to relay a
// passphrase, or (when OnDevice is true) to simply acknowledge that the
// device will collect it itself.
type PassphraseRequest[T any] struct {
	client      *Client
	onDevice    bool
	successType messages.MessageType
	postprocess func(messages.Message) (T, error)
}

// OnDevice reports whether the device will collect the passphrase
// itself; when true, Ack should be called with a nil passphrase.
func (p *PassphraseRequest[T]) OnDevice() bool { return p.onDevice }

// Ack relays passphrase (nil when OnDevice is true) and resumes the call.
func (p *PassphraseRequest[T]) Ack(passphrase *string) (Response[T], error) {
	return call(p.client, &messages.PassphraseAck{Passphrase: passphrase}, p.successType, p.postprocess)
}

// PassphraseStateRequest is a continuation carrying the passphrase-
// derived wallet state hash the device wants cached; some firmware
// revisions fold this into PassphraseRequest instead, but when a device
// does emit it, it must be acked with no payload before the call can
// proceed.
type PassphraseStateRequest[T any] struct {
	client      *Client
	state       []byte
	successType messages.MessageType
	postprocess func(messages.Message) (T, error)
}

// State returns the wallet state hash to cache for resuming a session.
func (p *PassphraseStateRequest[T]) State() []byte { return p.state }

// Ack acknowledges the passphrase state and resumes the call.
func (p *PassphraseStateRequest[T]) Ack() (Response[T], error) {
	return call(p.client, &messages.PassphraseStateAck{}, p.successType, p.postprocess)
}

// WordRequest is the fifth interaction branch of Response, emitted
// during RecoveryDevice: the device wants one seed word, entered plain or matched against a shown
// fragment depending on Kind.
type WordRequest[T any] struct {
	client      *Client
	kind        messages.WordRequestType
	successType messages.MessageType
	postprocess func(messages.Message) (T, error)
}

// Kind reports whether the device wants a plain word or a matrix pick.
func (w *WordRequest[T]) Kind() messages.WordRequestType { return w.kind }

// Ack relays word and resumes the call.
func (w *WordRequest[T]) Ack(word string) (Response[T], error) {
	return call(w.client, &messages.WordAck{Word: word}, w.successType, w.postprocess)
}
