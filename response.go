package trezor

// FailureInfo is the payload of a device Failure response.
type FailureInfo struct {
	Code    uint32
	Message string
}

// Response is the result of one Client.call: exactly one of its seven
// branches is populated. Ok and Failure are terminal; the five
// interaction branches each carry a continuation that, once acked,
// produces another Response[T] of the same type.
type Response[T any] struct {
	ok                     *T
	failure                *FailureInfo
	buttonRequest          *ButtonRequest[T]
	pinMatrixRequest       *PinMatrixRequest[T]
	passphraseRequest      *PassphraseRequest[T]
	passphraseStateRequest *PassphraseStateRequest[T]
	wordRequest            *WordRequest[T]
}

// Ok returns the success value and true iff the response is the Ok
// variant.
func (r Response[T]) Ok() (T, bool) {
	if r.ok != nil {
		return *r.ok, true
	}
	var zero T
	return zero, false
}

// Unwrap returns the success value, or an error describing whatever
// variant the response actually is: FailureResponse for a device
// Failure, UnexpectedInteractionRequest for any interaction branch.
func (r Response[T]) Unwrap() (T, error) {
	if v, ok := r.Ok(); ok {
		return v, nil
	}
	var zero T
	if f, ok := r.Failure(); ok {
		return zero, &Error{Kind: FailureResponse, Code: f.Code, Message: f.Message}
	}
	return zero, newError(UnexpectedInteractionRequest, "%s", r.interactionKind())
}

// Failure returns the device Failure payload and true iff the response
// is the Failure variant.
func (r Response[T]) Failure() (FailureInfo, bool) {
	if r.failure != nil {
		return *r.failure, true
	}
	return FailureInfo{}, false
}

// ButtonRequest returns the button-confirmation continuation and true
// iff the response is that variant.
func (r Response[T]) ButtonRequest() (*ButtonRequest[T], bool) {
	return r.buttonRequest, r.buttonRequest != nil
}

// PinMatrixRequest returns the PIN-entry continuation and true iff the
// response is that variant.
func (r Response[T]) PinMatrixRequest() (*PinMatrixRequest[T], bool) {
	return r.pinMatrixRequest, r.pinMatrixRequest != nil
}

// PassphraseRequest returns the passphrase-entry continuation and true
// iff the response is that variant.
func (r Response[T]) PassphraseRequest() (*PassphraseRequest[T], bool) {
	return r.passphraseRequest, r.passphraseRequest != nil
}

// PassphraseStateRequest returns the passphrase-state continuation and
// true iff the response is that variant.
func (r Response[T]) PassphraseStateRequest() (*PassphraseStateRequest[T], bool) {
	return r.passphraseStateRequest, r.passphraseStateRequest != nil
}

// WordRequest returns the seed-word continuation and true iff the
// response is that variant. Only emitted during RecoveryDevice.
func (r Response[T]) WordRequest() (*WordRequest[T], bool) {
	return r.wordRequest, r.wordRequest != nil
}

func (r Response[T]) interactionKind() string {
	switch {
	case r.buttonRequest != nil:
		return "ButtonRequest"
	case r.pinMatrixRequest != nil:
		return "PinMatrixRequest"
	case r.passphraseRequest != nil:
		return "PassphraseRequest"
	case r.passphraseStateRequest != nil:
		return "PassphraseStateRequest"
	case r.wordRequest != nil:
		return "WordRequest"
	default:
		return "Ok"
	}
}
