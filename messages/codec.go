package messages

import "fmt"

// UnsupportedTypeError is returned by New (and therefore Decode) when mt
// names a message type this module never receives or sends. Kept as a
// distinct type, rather than a plain fmt.Errorf, so callers can tell an
// unknown wire type tag apart from a malformed payload for a known one.
type UnsupportedTypeError struct {
	Type MessageType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("messages: unsupported message type %s (%d)", e.Type, e.Type)
}

// New allocates a zero-value Message for a MessageType, so a caller can
// Unmarshal an incoming frame into it without a giant type switch of its
// own. It returns an error for message types this module never receives
// or sends (e.g. the unimplemented altcoin catalogue).
func New(mt MessageType) (Message, error) {
	switch mt {
	case MessageType_Initialize:
		return &Initialize{}, nil
	case MessageType_Ping:
		return &Ping{}, nil
	case MessageType_Success:
		return &Success{}, nil
	case MessageType_Failure:
		return &Failure{}, nil
	case MessageType_ChangePin:
		return &ChangePin{}, nil
	case MessageType_WipeDevice:
		return &WipeDevice{}, nil
	case MessageType_GetEntropy:
		return &GetEntropy{}, nil
	case MessageType_Entropy:
		return &Entropy{}, nil
	case MessageType_GetPublicKey:
		return &GetPublicKey{}, nil
	case MessageType_PublicKey:
		return &PublicKey{}, nil
	case MessageType_ResetDevice:
		return &ResetDevice{}, nil
	case MessageType_SignTx:
		return &SignTx{}, nil
	case MessageType_Features:
		return &Features{}, nil
	case MessageType_PinMatrixRequest:
		return &PinMatrixRequest{}, nil
	case MessageType_PinMatrixAck:
		return &PinMatrixAck{}, nil
	case MessageType_Cancel:
		return &Cancel{}, nil
	case MessageType_TxRequest:
		return &TxRequest{}, nil
	case MessageType_TxAck:
		return &TxAck{}, nil
	case MessageType_ClearSession:
		return &ClearSession{}, nil
	case MessageType_ApplySettings:
		return &ApplySettings{}, nil
	case MessageType_ButtonRequest:
		return &ButtonRequest{}, nil
	case MessageType_ButtonAck:
		return &ButtonAck{}, nil
	case MessageType_ApplyFlags:
		return &ApplyFlags{}, nil
	case MessageType_GetAddress:
		return &GetAddress{}, nil
	case MessageType_Address:
		return &Address{}, nil
	case MessageType_BackupDevice:
		return &BackupDevice{}, nil
	case MessageType_EntropyRequest:
		return &EntropyRequest{}, nil
	case MessageType_EntropyAck:
		return &EntropyAck{}, nil
	case MessageType_SignMessage:
		return &SignMessage{}, nil
	case MessageType_VerifyMessage:
		return &VerifyMessage{}, nil
	case MessageType_MessageSignature:
		return &MessageSignature{}, nil
	case MessageType_PassphraseRequest:
		return &PassphraseRequest{}, nil
	case MessageType_PassphraseAck:
		return &PassphraseAck{}, nil
	case MessageType_RecoveryDevice:
		return &RecoveryDevice{}, nil
	case MessageType_WordRequest:
		return &WordRequest{}, nil
	case MessageType_WordAck:
		return &WordAck{}, nil
	case MessageType_GetFeatures:
		return &GetFeatures{}, nil
	case MessageType_PassphraseStateRequest:
		return &PassphraseStateRequest{}, nil
	case MessageType_PassphraseStateAck:
		return &PassphraseStateAck{}, nil
	default:
		return nil, &UnsupportedTypeError{Type: mt}
	}
}

// Decode allocates the right Message for mt and unmarshals data into it.
func Decode(mt MessageType, data []byte) (Message, error) {
	msg, err := New(mt)
	if err != nil {
		return nil, err
	}
	if err := msg.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("messages: decode %s: %w", mt, err)
	}
	return msg, nil
}

// Encode marshals msg to its wire representation.
func Encode(msg Message) ([]byte, error) {
	b, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("messages: encode %s: %w", msg.Type(), err)
	}
	return b, nil
}
