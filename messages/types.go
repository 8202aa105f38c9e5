// Package messages is the generated wire-schema layer for the device's
// application protocol: one Go type per protobuf message, keyed by a
// MessageType tag. In a production deployment these types and their wire
// encoding are produced by a schema compiler from the versioned
// trezor-common message definitions; this package is a hand-maintained
// stand-in for that generated code, built directly on protobuf's wire
// primitives rather than full descriptor-based reflection.
package messages

// MessageType identifies the schema of a Message's payload on the wire.
type MessageType uint32

// The subset of the trezor-common message catalogue this module drives.
const (
	MessageType_Initialize              MessageType = 0
	MessageType_Ping                    MessageType = 1
	MessageType_Success                 MessageType = 2
	MessageType_Failure                 MessageType = 3
	MessageType_ChangePin                MessageType = 4
	MessageType_WipeDevice               MessageType = 5
	MessageType_GetEntropy               MessageType = 9
	MessageType_Entropy                  MessageType = 10
	MessageType_GetPublicKey             MessageType = 11
	MessageType_PublicKey                MessageType = 12
	MessageType_LoadDevice               MessageType = 13
	MessageType_ResetDevice              MessageType = 14
	MessageType_SignTx                   MessageType = 15
	MessageType_Features                 MessageType = 17
	MessageType_PinMatrixRequest         MessageType = 18
	MessageType_PinMatrixAck             MessageType = 19
	MessageType_Cancel                   MessageType = 20
	MessageType_TxRequest                MessageType = 21
	MessageType_TxAck                    MessageType = 22
	MessageType_ClearSession             MessageType = 24
	MessageType_ApplySettings            MessageType = 25
	MessageType_ButtonRequest            MessageType = 26
	MessageType_ButtonAck                MessageType = 27
	MessageType_ApplyFlags               MessageType = 28
	MessageType_GetAddress               MessageType = 29
	MessageType_Address                  MessageType = 30
	MessageType_BackupDevice             MessageType = 34
	MessageType_EntropyRequest           MessageType = 35
	MessageType_EntropyAck               MessageType = 36
	MessageType_SignMessage              MessageType = 38
	MessageType_VerifyMessage            MessageType = 39
	MessageType_MessageSignature         MessageType = 40
	MessageType_PassphraseRequest        MessageType = 41
	MessageType_PassphraseAck            MessageType = 42
	MessageType_RecoveryDevice           MessageType = 45
	MessageType_WordRequest              MessageType = 46
	MessageType_WordAck                  MessageType = 47
	MessageType_GetFeatures              MessageType = 55
	MessageType_PassphraseStateRequest   MessageType = 77
	MessageType_PassphraseStateAck       MessageType = 78
)

var typeNames = map[MessageType]string{
	MessageType_Initialize:            "Initialize",
	MessageType_Ping:                  "Ping",
	MessageType_Success:               "Success",
	MessageType_Failure:               "Failure",
	MessageType_ChangePin:             "ChangePin",
	MessageType_WipeDevice:            "WipeDevice",
	MessageType_GetEntropy:            "GetEntropy",
	MessageType_Entropy:               "Entropy",
	MessageType_GetPublicKey:          "GetPublicKey",
	MessageType_PublicKey:             "PublicKey",
	MessageType_LoadDevice:            "LoadDevice",
	MessageType_ResetDevice:           "ResetDevice",
	MessageType_SignTx:                "SignTx",
	MessageType_Features:              "Features",
	MessageType_PinMatrixRequest:      "PinMatrixRequest",
	MessageType_PinMatrixAck:          "PinMatrixAck",
	MessageType_Cancel:                "Cancel",
	MessageType_TxRequest:             "TxRequest",
	MessageType_TxAck:                 "TxAck",
	MessageType_ClearSession:          "ClearSession",
	MessageType_ApplySettings:         "ApplySettings",
	MessageType_ButtonRequest:         "ButtonRequest",
	MessageType_ButtonAck:             "ButtonAck",
	MessageType_ApplyFlags:            "ApplyFlags",
	MessageType_GetAddress:            "GetAddress",
	MessageType_Address:               "Address",
	MessageType_BackupDevice:          "BackupDevice",
	MessageType_EntropyRequest:        "EntropyRequest",
	MessageType_EntropyAck:            "EntropyAck",
	MessageType_SignMessage:           "SignMessage",
	MessageType_VerifyMessage:         "VerifyMessage",
	MessageType_MessageSignature:      "MessageSignature",
	MessageType_PassphraseRequest:     "PassphraseRequest",
	MessageType_PassphraseAck:         "PassphraseAck",
	MessageType_RecoveryDevice:        "RecoveryDevice",
	MessageType_WordRequest:           "WordRequest",
	MessageType_WordAck:               "WordAck",
	MessageType_GetFeatures:           "GetFeatures",
	MessageType_PassphraseStateRequest: "PassphraseStateRequest",
	MessageType_PassphraseStateAck:    "PassphraseStateAck",
}

func (mt MessageType) String() string {
	if name, ok := typeNames[mt]; ok {
		return name
	}
	return "Unknown"
}

// Message is implemented by every typed payload in this package.
type Message interface {
	// Type reports the MessageType tag this payload is carried under.
	Type() MessageType
	// Marshal encodes the payload to its wire representation.
	Marshal() ([]byte, error)
	// Unmarshal decodes the wire representation into the payload,
	// replacing its current contents.
	Unmarshal([]byte) error
}
