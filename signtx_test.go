package trezor

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-trezor/trezor/messages"
)

func p2pkhScript(hash160 byte) []byte {
	script := make([]byte, 25)
	script[0] = 0x76 // OP_DUP
	script[1] = 0xa9 // OP_HASH160
	script[2] = 0x14 // push 20 bytes
	for i := 0; i < 20; i++ {
		script[3+i] = hash160
	}
	script[23] = 0x88 // OP_EQUALVERIFY
	script[24] = 0xac // OP_CHECKSIG
	return script
}

// buildFixture returns a signing PSBT whose single input spends output 0
// of a synthetic dependent transaction.
func buildFixture(t *testing.T) (*psbt.Packet, *btcwire.MsgTx) {
	t.Helper()

	depTx := btcwire.NewMsgTx(2)
	depTx.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: btcwire.OutPoint{Hash: chainhash.Hash{0xaa}, Index: 0},
		Sequence:         btcwire.MaxTxInSequenceNum,
	})
	depTx.AddTxOut(&btcwire.TxOut{Value: 100000, PkScript: p2pkhScript(0x11)})

	unsignedTx := btcwire.NewMsgTx(2)
	unsignedTx.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: btcwire.OutPoint{Hash: depTx.TxHash(), Index: 0},
		Sequence:         btcwire.MaxTxInSequenceNum,
	})
	unsignedTx.AddTxOut(&btcwire.TxOut{Value: 99000, PkScript: p2pkhScript(0x22)})

	pkt := &psbt.Packet{
		UnsignedTx: unsignedTx,
		Inputs: []psbt.PInput{
			{NonWitnessUtxo: depTx},
		},
		Outputs: []psbt.POutput{
			{},
		},
	}
	return pkt, depTx
}

func TestAckMetaRequestForSigningTx(t *testing.T) {
	pkt, _ := buildFixture(t)
	req := &messages.TxRequest{RequestType: messages.TxRequestType_TXMETA}

	ack, err := ackMetaRequest(req, pkt)
	require.NoError(t, err)
	require.NotNil(t, ack.Tx.Version)
	assert.EqualValues(t, 2, *ack.Tx.Version)
	require.NotNil(t, ack.Tx.InputsCnt)
	assert.EqualValues(t, 1, *ack.Tx.InputsCnt)
	require.NotNil(t, ack.Tx.OutputsCnt)
	assert.EqualValues(t, 1, *ack.Tx.OutputsCnt)
}

func TestAckMetaRequestForDependentTx(t *testing.T) {
	pkt, depTx := buildFixture(t)
	txid := depTx.TxHash()
	req := &messages.TxRequest{
		RequestType: messages.TxRequestType_TXMETA,
		Details:     &messages.TxRequestDetailsType{TxHash: hashToWire(txid)},
	}

	ack, err := ackMetaRequest(req, pkt)
	require.NoError(t, err)
	require.NotNil(t, ack.Tx.OutputsCnt)
	assert.EqualValues(t, 1, *ack.Tx.OutputsCnt)
}

func TestAckInputRequestForSigningTx(t *testing.T) {
	pkt, _ := buildFixture(t)
	idx := uint32(0)
	req := &messages.TxRequest{
		RequestType: messages.TxRequestType_TXINPUT,
		Details:     &messages.TxRequestDetailsType{RequestIndex: &idx},
	}

	// the signing input carries the dependent tx as its non_witness_utxo,
	// so amount and script type are filled in too; this test checks only
	// the prevout fields.
	ack, err := ackInputRequest(req, pkt)
	require.NoError(t, err)
	require.Len(t, ack.Tx.Inputs, 1)
	in := ack.Tx.Inputs[0]
	assert.EqualValues(t, 0, in.PrevIndex)
	wantHash := pkt.UnsignedTx.TxIn[0].PreviousOutPoint.Hash
	assert.True(t, bytes.Equal(in.PrevHash, reverseBytes(wantHash[:])))
}

func TestAckInputRequestForDependentTx(t *testing.T) {
	pkt, depTx := buildFixture(t)
	txid := depTx.TxHash()
	idx := uint32(0)
	req := &messages.TxRequest{
		RequestType: messages.TxRequestType_TXINPUT,
		Details: &messages.TxRequestDetailsType{
			RequestIndex: &idx,
			TxHash:       hashToWire(txid),
		},
	}

	ack, err := ackInputRequest(req, pkt)
	require.NoError(t, err)
	require.Len(t, ack.Tx.Inputs, 1)
	in := ack.Tx.Inputs[0]
	wantHash := depTx.TxIn[0].PreviousOutPoint.Hash
	assert.True(t, bytes.Equal(in.PrevHash, reverseBytes(wantHash[:])))
}

func TestAckInputRequestUnknownDependentTxid(t *testing.T) {
	pkt, _ := buildFixture(t)
	idx := uint32(0)
	req := &messages.TxRequest{
		RequestType: messages.TxRequestType_TXINPUT,
		Details: &messages.TxRequestDetailsType{
			RequestIndex: &idx,
			TxHash:       hashToWire(chainhash.Hash{0xff}),
		},
	}

	_, err := ackInputRequest(req, pkt)
	require.Error(t, err)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, TxRequestUnknownTxid, terr.Kind)
}

func TestAckOutputRequestForDependentTxUsesBinOutputs(t *testing.T) {
	pkt, depTx := buildFixture(t)
	txid := depTx.TxHash()
	idx := uint32(0)
	req := &messages.TxRequest{
		RequestType: messages.TxRequestType_TXOUTPUT,
		Details: &messages.TxRequestDetailsType{
			RequestIndex: &idx,
			TxHash:       hashToWire(txid),
		},
	}

	ack, err := ackOutputRequest(req, pkt, NetworkBitcoin)
	require.NoError(t, err)
	require.Len(t, ack.Tx.BinOutputs, 1)
	assert.EqualValues(t, 100000, ack.Tx.BinOutputs[0].Amount)
	assert.Equal(t, depTx.TxOut[0].PkScript, ack.Tx.BinOutputs[0].ScriptPubkey)
	assert.Empty(t, ack.Tx.Outputs)
}

func TestAckOutputRequestForSigningTxResolvesAddress(t *testing.T) {
	pkt, _ := buildFixture(t)
	idx := uint32(0)
	req := &messages.TxRequest{
		RequestType: messages.TxRequestType_TXOUTPUT,
		Details:     &messages.TxRequestDetailsType{RequestIndex: &idx},
	}

	ack, err := ackOutputRequest(req, pkt, NetworkBitcoin)
	require.NoError(t, err)
	require.Len(t, ack.Tx.Outputs, 1)
	out := ack.Tx.Outputs[0]
	assert.EqualValues(t, 99000, out.Amount)
	assert.NotEmpty(t, out.Address)
	assert.Equal(t, messages.OutputScriptType_PAYTOADDRESS, out.ScriptType)
}

func TestAckOutputRequestSetsAddressAndAddressNIndependently(t *testing.T) {
	pkt, _ := buildFixture(t)
	pkt.Outputs[0].Bip32Derivation = []*psbt.Bip32Derivation{
		{PubKey: []byte{0x02}, Bip32Path: []uint32{Hardened(44), Hardened(0), Hardened(0), 0, 0}},
	}
	idx := uint32(0)
	req := &messages.TxRequest{
		RequestType: messages.TxRequestType_TXOUTPUT,
		Details:     &messages.TxRequestDetailsType{RequestIndex: &idx},
	}

	ack, err := ackOutputRequest(req, pkt, NetworkBitcoin)
	require.NoError(t, err)
	require.Len(t, ack.Tx.Outputs, 1)
	out := ack.Tx.Outputs[0]
	assert.Equal(t, []uint32{Hardened(44), Hardened(0), Hardened(0), 0, 0}, out.AddressN)
	assert.NotEmpty(t, out.Address)
	assert.Equal(t, messages.OutputScriptType_PAYTOADDRESS, out.ScriptType)
}

func TestOutputScriptTypeClassification(t *testing.T) {
	assert.Equal(t, messages.OutputScriptType_PAYTOOPRETURN, outputScriptType(true, false, false))
	assert.Equal(t, messages.OutputScriptType_PAYTOWITNESS, outputScriptType(false, true, false))
	assert.Equal(t, messages.OutputScriptType_PAYTOP2SHWITNESS, outputScriptType(false, true, true))
	assert.Equal(t, messages.OutputScriptType_PAYTOADDRESS, outputScriptType(false, false, false))
	assert.Equal(t, messages.OutputScriptType_PAYTOADDRESS, outputScriptType(false, false, true))
}

func TestAckPSBTExtraDataUnsupported(t *testing.T) {
	pkt, _ := buildFixture(t)
	p := &SignTxProgress{
		client:  nil,
		req:     &messages.TxRequest{RequestType: messages.TxRequestType_TXEXTRADATA},
		network: NetworkBitcoin,
	}

	_, err := p.AckPSBT(pkt)
	require.Error(t, err)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, InvalidPsbt, terr.Kind)
}

func TestSignTxProgressFinished(t *testing.T) {
	p := &SignTxProgress{req: &messages.TxRequest{RequestType: messages.TxRequestType_TXFINISHED}}
	assert.True(t, p.Finished())
	assert.Panics(t, func() {
		_, _ = p.AckMsg(&messages.TxAck{})
	})
}

func TestSignTxProgressSignatureAndSerializedChunk(t *testing.T) {
	sigIdx := uint32(0)
	p := &SignTxProgress{req: &messages.TxRequest{
		RequestType: messages.TxRequestType_TXINPUT,
		Serialized: &messages.TxRequestSerializedType{
			SignatureIndex: &sigIdx,
			Signature:      []byte{1, 2, 3},
			SerializedTx:   []byte{4, 5},
		},
	}}

	index, sig, ok := p.GetSignature()
	require.True(t, ok)
	assert.Equal(t, 0, index)
	assert.Equal(t, []byte{1, 2, 3}, sig)

	chunk, ok := p.GetSerializedTxPart()
	require.True(t, ok)
	assert.Equal(t, []byte{4, 5}, chunk)
}
