package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()
	payload, err := Encode(msg)
	require.NoError(t, err)
	got, err := Decode(msg.Type(), payload)
	require.NoError(t, err)
	return got
}

func TestPublicKeyRoundTrip(t *testing.T) {
	want := &PublicKey{
		Xpub:          "xpub6CUGRUo...",
		ChainCode:     []byte{1, 2, 3, 4},
		PublicKeyData: []byte{5, 6, 7},
		Depth:         3,
		Fingerprint:   0xdeadbeef,
		ChildNum:      7,
	}
	got := roundTrip(t, want)
	assert.Equal(t, want, got)
}

func TestTxRequestRoundTripWithDetailsAndSerialized(t *testing.T) {
	idx := uint32(2)
	sigIdx := uint32(1)
	want := &TxRequest{
		RequestType: TxRequestType_TXINPUT,
		Details: &TxRequestDetailsType{
			RequestIndex: &idx,
			TxHash:       []byte{0xaa, 0xbb, 0xcc},
		},
		Serialized: &TxRequestSerializedType{
			SignatureIndex: &sigIdx,
			Signature:      []byte{1, 2, 3},
			SerializedTx:   []byte{4, 5, 6, 7},
		},
	}
	got := roundTrip(t, want)
	assert.Equal(t, want, got)
}

func TestTxAckRoundTripWithInputAndOutput(t *testing.T) {
	amount := uint64(5000)
	want := &TxAck{Tx: &TxAckTransactionType{
		Inputs: []*TxInputType{{
			AddressN:  []uint32{hardened(44), hardened(0), hardened(0), 0, 0},
			PrevHash:  []byte{1, 2, 3, 4},
			PrevIndex: 0,
			Sequence:  0xffffffff,
			Amount:    &amount,
		}},
		Outputs: []*TxOutputType{{
			Address: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
			Amount:  4900,
		}},
	}}
	got := roundTrip(t, want)
	assert.Equal(t, want, got)
}

func TestTxAckRoundTripWithBinOutput(t *testing.T) {
	want := &TxAck{Tx: &TxAckTransactionType{
		BinOutputs: []*TxOutputBinType{{
			Amount:       12345,
			ScriptPubkey: []byte{0x76, 0xa9, 0x14},
		}},
	}}
	got := roundTrip(t, want)
	assert.Equal(t, want, got)
}

func TestSignTxRoundTrip(t *testing.T) {
	want := &SignTx{
		OutputsCount: 2,
		InputsCount:  1,
		CoinName:     "Bitcoin",
		Version:      2,
		LockTime:     0,
	}
	got := roundTrip(t, want)
	assert.Equal(t, want, got)
}

func TestDecodeUnsupportedMessageType(t *testing.T) {
	_, err := Decode(MessageType(999999), nil)
	require.Error(t, err)
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, MessageType(999999), unsupported.Type)
}

func TestFailureRoundTrip(t *testing.T) {
	want := &Failure{Code: 3, Message: "pin invalid"}
	got := roundTrip(t, want)
	assert.Equal(t, want, got)
}

// hardened mirrors the root package's exported Hardened helper, kept
// local so these tests have no import-cycle dependency on that package.
func hardened(index uint32) uint32 { return index | 0x80000000 }
