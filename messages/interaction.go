package messages

// ButtonRequestType enumerates why the device wants a physical button
// confirmation.
type ButtonRequestType uint32

const (
	ButtonRequestType_Other ButtonRequestType = iota
	ButtonRequestType_ConfirmOutput
	ButtonRequestType_ResetDevice
	ButtonRequestType_ConfirmWord
	ButtonRequestType_WipeDevice
	ButtonRequestType_ProtectCall
	ButtonRequestType_SignTx
	ButtonRequestType_FirmwareCheck
	ButtonRequestType_Address
	ButtonRequestType_PublicKey
)

// ButtonRequest asks the host to wait for the user to press a button on
// the device; it carries no information the host can act on besides the
// reason code, which is purely informational.
type ButtonRequest struct {
	Code ButtonRequestType
	Data string
}

func (m *ButtonRequest) Type() MessageType { return MessageType_ButtonRequest }
func (m *ButtonRequest) Marshal() ([]byte, error) {
	b := putUint32(nil, 1, uint32(m.Code))
	b = putString(b, 2, m.Data)
	return b, nil
}
func (m *ButtonRequest) Unmarshal(data []byte) error {
	*m = ButtonRequest{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Code = ButtonRequestType(f.Uint)
		case 2:
			m.Data = string(f.Bytes)
		}
	}
	return nil
}

// ButtonAck acknowledges a ButtonRequest; it carries no payload.
type ButtonAck struct{}

func (m *ButtonAck) Type() MessageType          { return MessageType_ButtonAck }
func (m *ButtonAck) Marshal() ([]byte, error)   { return nil, nil }
func (m *ButtonAck) Unmarshal(data []byte) error { *m = ButtonAck{}; return nil }

// PinMatrixRequestType says which PIN the device is currently asking for.
type PinMatrixRequestType uint32

const (
	PinMatrixRequestType_Current PinMatrixRequestType = iota + 1
	PinMatrixRequestType_NewFirst
	PinMatrixRequestType_NewSecond
)

// PinMatrixRequest asks the host to relay a PIN, entered by the user
// against the scrambled keypad layout the device is currently displaying.
type PinMatrixRequest struct {
	Type_ PinMatrixRequestType
}

func (m *PinMatrixRequest) Type() MessageType { return MessageType_PinMatrixRequest }
func (m *PinMatrixRequest) Marshal() ([]byte, error) {
	return putUint32(nil, 1, uint32(m.Type_)), nil
}
func (m *PinMatrixRequest) Unmarshal(data []byte) error {
	*m = PinMatrixRequest{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Type_ = PinMatrixRequestType(f.Uint)
		}
	}
	return nil
}

// PinMatrixAck relays the digit-per-keypad-position PIN string.
type PinMatrixAck struct {
	Pin string
}

func (m *PinMatrixAck) Type() MessageType { return MessageType_PinMatrixAck }
func (m *PinMatrixAck) Marshal() ([]byte, error) {
	return putString(nil, 1, m.Pin), nil
}
func (m *PinMatrixAck) Unmarshal(data []byte) error {
	*m = PinMatrixAck{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Pin = string(f.Bytes)
		}
	}
	return nil
}

// PassphraseRequest asks the host either to relay a passphrase, or to
// acknowledge that the device will collect it on-device (OnDevice).
type PassphraseRequest struct {
	OnDevice bool
}

func (m *PassphraseRequest) Type() MessageType { return MessageType_PassphraseRequest }
func (m *PassphraseRequest) Marshal() ([]byte, error) {
	return putBool(nil, 1, m.OnDevice), nil
}
func (m *PassphraseRequest) Unmarshal(data []byte) error {
	*m = PassphraseRequest{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.OnDevice = f.Uint != 0
		}
	}
	return nil
}

// PassphraseAck relays a passphrase, or is sent empty when the device
// collects the passphrase itself (PassphraseRequest.OnDevice).
type PassphraseAck struct {
	Passphrase *string
}

func (m *PassphraseAck) Type() MessageType { return MessageType_PassphraseAck }
func (m *PassphraseAck) Marshal() ([]byte, error) {
	var b []byte
	if m.Passphrase != nil {
		b = putString(b, 1, *m.Passphrase)
	}
	return b, nil
}
func (m *PassphraseAck) Unmarshal(data []byte) error {
	*m = PassphraseAck{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			s := string(f.Bytes)
			m.Passphrase = &s
		}
	}
	return nil
}

// PassphraseStateRequest tells the host the passphrase-derived wallet
// state hash, so it can be cached for resuming a session later.
type PassphraseStateRequest struct {
	State []byte
}

func (m *PassphraseStateRequest) Type() MessageType { return MessageType_PassphraseStateRequest }
func (m *PassphraseStateRequest) Marshal() ([]byte, error) {
	return putBytes(nil, 1, m.State), nil
}
func (m *PassphraseStateRequest) Unmarshal(data []byte) error {
	*m = PassphraseStateRequest{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.State = f.Bytes
		}
	}
	return nil
}

// PassphraseStateAck acknowledges a PassphraseStateRequest; no payload.
type PassphraseStateAck struct{}

func (m *PassphraseStateAck) Type() MessageType          { return MessageType_PassphraseStateAck }
func (m *PassphraseStateAck) Marshal() ([]byte, error)   { return nil, nil }
func (m *PassphraseStateAck) Unmarshal(data []byte) error { *m = PassphraseStateAck{}; return nil }

// WordRequestType says whether the device wants a plain word or one
// matched against a shown pair/fragment, during RecoveryDevice.
type WordRequestType uint32

const (
	WordRequestType_Plain WordRequestType = iota
	WordRequestType_Matrix9
	WordRequestType_Matrix6
)

// WordRequest asks the host for one seed word during device recovery.
type WordRequest struct {
	Type_ WordRequestType
}

func (m *WordRequest) Type() MessageType { return MessageType_WordRequest }
func (m *WordRequest) Marshal() ([]byte, error) {
	return putUint32(nil, 1, uint32(m.Type_)), nil
}
func (m *WordRequest) Unmarshal(data []byte) error {
	*m = WordRequest{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Type_ = WordRequestType(f.Uint)
		}
	}
	return nil
}

// WordAck relays one recovery seed word.
type WordAck struct {
	Word string
}

func (m *WordAck) Type() MessageType { return MessageType_WordAck }
func (m *WordAck) Marshal() ([]byte, error) {
	return putString(nil, 1, m.Word), nil
}
func (m *WordAck) Unmarshal(data []byte) error {
	*m = WordAck{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Word = string(f.Bytes)
		}
	}
	return nil
}
