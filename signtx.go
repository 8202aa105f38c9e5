package trezor

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	btcwire "github.com/btcsuite/btcd/wire"

	"github.com/go-trezor/trezor/messages"
)

// SignTx starts the signing coroutine for the unsigned transaction carried
// in pkt. The device replies with a TxRequest naming what it needs next;
// the caller drives SignTxProgress.AckPSBT in a loop, feeding it the same
// pkt, until Finished reports true.
func (c *Client) SignTx(pkt *psbt.Packet, network Network) (Response[*SignTxProgress], error) {
	coin, err := coinName(network)
	if err != nil {
		return Response[*SignTxProgress]{}, err
	}
	tx := pkt.UnsignedTx
	req := &messages.SignTx{
		OutputsCount: uint32(len(tx.TxOut)),
		InputsCount:  uint32(len(tx.TxIn)),
		CoinName:     coin,
		Version:      uint32(tx.Version),
		LockTime:     tx.LockTime,
	}
	return call(c, req, messages.MessageType_TxRequest,
		func(msg messages.Message) (*SignTxProgress, error) {
			return &SignTxProgress{client: c, req: msg.(*messages.TxRequest), network: network}, nil
		})
}

// SignTxProgress is one step of the SignTx coroutine: the device's most
// recent TxRequest, together with enough state to answer it.
type SignTxProgress struct {
	client  *Client
	req     *messages.TxRequest
	network Network
}

// TxRequest returns the device's most recent request.
func (p *SignTxProgress) TxRequest() *messages.TxRequest { return p.req }

// Finished reports whether the device has produced every signature and
// the fully serialized transaction; no further ack is expected or allowed.
func (p *SignTxProgress) Finished() bool {
	return p.req.RequestType == messages.TxRequestType_TXFINISHED
}

// HasSignature reports whether this step carried a finished input
// signature.
func (p *SignTxProgress) HasSignature() bool {
	return p.req.Serialized != nil && p.req.Serialized.SignatureIndex != nil
}

// GetSignature returns the input index and raw signature carried by this
// step, if any.
func (p *SignTxProgress) GetSignature() (index int, signature []byte, ok bool) {
	if !p.HasSignature() {
		return 0, nil, false
	}
	return int(*p.req.Serialized.SignatureIndex), p.req.Serialized.Signature, true
}

// HasSerializedTxPart reports whether this step carried a chunk of the
// final serialized transaction.
func (p *SignTxProgress) HasSerializedTxPart() bool {
	return p.req.Serialized != nil && len(p.req.Serialized.SerializedTx) > 0
}

// GetSerializedTxPart returns the serialized-transaction chunk carried by
// this step, if any. Chunks arrive in order and must be concatenated by
// the caller.
func (p *SignTxProgress) GetSerializedTxPart() ([]byte, bool) {
	if !p.HasSerializedTxPart() {
		return nil, false
	}
	return p.req.Serialized.SerializedTx, true
}

// AckMsg sends a raw TxAck and returns the next step. Most callers should
// use AckPSBT instead; AckMsg is exposed for tests and for callers that
// build the TxAck payload themselves.
func (p *SignTxProgress) AckMsg(ack *messages.TxAck) (Response[*SignTxProgress], error) {
	if p.Finished() {
		panic("trezor: AckMsg called after SignTx finished")
	}
	return call(p.client, ack, messages.MessageType_TxRequest,
		func(msg messages.Message) (*SignTxProgress, error) {
			return &SignTxProgress{client: p.client, req: msg.(*messages.TxRequest), network: p.network}, nil
		})
}

// AckPSBT answers the current TxRequest out of pkt, the same PSBT passed
// to SignTx, and returns the next step.
func (p *SignTxProgress) AckPSBT(pkt *psbt.Packet) (Response[*SignTxProgress], error) {
	if p.Finished() {
		panic("trezor: AckPSBT called after SignTx finished")
	}
	var ack *messages.TxAck
	var err error
	switch p.req.RequestType {
	case messages.TxRequestType_TXINPUT:
		ack, err = ackInputRequest(p.req, pkt)
	case messages.TxRequestType_TXOUTPUT:
		ack, err = ackOutputRequest(p.req, pkt, p.network)
	case messages.TxRequestType_TXMETA:
		ack, err = ackMetaRequest(p.req, pkt)
	case messages.TxRequestType_TXEXTRADATA:
		err = newError(InvalidPsbt, "extra data not supported")
	default:
		panic("trezor: AckPSBT called with no outstanding request")
	}
	if err != nil {
		return Response[*SignTxProgress]{}, err
	}
	return p.AckMsg(ack)
}

// reverseBytes returns a copy of b with its byte order reversed, used to
// convert between chainhash's internal digest order and the byte order
// the wire protocol puts prev_hash/tx_hash in.
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func hashFromWire(b []byte) (chainhash.Hash, error) {
	var h chainhash.Hash
	if len(b) != chainhash.HashSize {
		return h, newError(MalformedTxRequest, "tx_hash is %d bytes, want %d", len(b), chainhash.HashSize)
	}
	copy(h[:], reverseBytes(b))
	return h, nil
}

func hashToWire(h chainhash.Hash) []byte {
	raw := h[:]
	return reverseBytes(append([]byte(nil), raw...))
}

// findDependentInput locates the input of the transaction being signed
// whose previous output spends the dependent transaction identified by
// txid; that input's NonWitnessUtxo is the full dependent transaction the
// device is asking about.
func findDependentInput(pkt *psbt.Packet, txid chainhash.Hash) (*psbt.PInput, error) {
	for i, in := range pkt.UnsignedTx.TxIn {
		if in.PreviousOutPoint.Hash == txid {
			return &pkt.Inputs[i], nil
		}
	}
	return nil, newError(TxRequestUnknownTxid, "%s", txid)
}

func chainParamsFor(network Network) *chaincfg.Params {
	if network == NetworkTestnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// classifyInputScript maps a UTXO's scriptPubKey to the InputScriptType
// the device expects to see for it.
func classifyInputScript(script []byte, hasWitnessScript bool) messages.InputScriptType {
	switch txscript.GetScriptClass(script) {
	case txscript.PubKeyHashTy:
		return messages.InputScriptType_SPENDADDRESS
	case txscript.WitnessV0PubKeyHashTy, txscript.WitnessV0ScriptHashTy:
		return messages.InputScriptType_SPENDWITNESS
	case txscript.ScriptHashTy:
		if hasWitnessScript {
			return messages.InputScriptType_SPENDP2SHWITNESS
		}
		return messages.InputScriptType_EXTERNAL
	default:
		return messages.InputScriptType_EXTERNAL
	}
}

// addressFromScript derives the single address a scriptPubKey pays to, for
// the outputs the device needs to show the user rather than just hash.
func addressFromScript(script []byte, network Network) (string, bool) {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, chainParamsFor(network))
	if err != nil || len(addrs) != 1 {
		return "", false
	}
	return addrs[0].EncodeAddress(), true
}

// ackInputRequest builds the TxAck for a TXINPUT request, pulling the
// input either from the transaction being signed or, when Details.TxHash
// is set, from the dependent transaction it names.
func ackInputRequest(req *messages.TxRequest, pkt *psbt.Packet) (*messages.TxAck, error) {
	if req.Details == nil || req.Details.RequestIndex == nil {
		return nil, newError(MalformedTxRequest, "TXINPUT request missing details.request_index")
	}
	index := int(*req.Details.RequestIndex)
	dependent := len(req.Details.TxHash) > 0

	var txIn *btcwire.TxIn
	var psbtIn *psbt.PInput
	if dependent {
		txid, err := hashFromWire(req.Details.TxHash)
		if err != nil {
			return nil, err
		}
		depInput, err := findDependentInput(pkt, txid)
		if err != nil {
			return nil, err
		}
		if depInput.NonWitnessUtxo == nil {
			return nil, newError(PsbtMissingInputTx, "dependent tx %s has no non_witness_utxo on file", txid)
		}
		if index >= len(depInput.NonWitnessUtxo.TxIn) {
			return nil, newError(TxRequestInvalidIndex, "dependent tx input %d", index)
		}
		txIn = depInput.NonWitnessUtxo.TxIn[index]
	} else {
		if index >= len(pkt.UnsignedTx.TxIn) || index >= len(pkt.Inputs) {
			return nil, newError(TxRequestInvalidIndex, "input %d", index)
		}
		txIn = pkt.UnsignedTx.TxIn[index]
		psbtIn = &pkt.Inputs[index]
	}

	in := &messages.TxInputType{
		PrevHash:  reverseBytes(txIn.PreviousOutPoint.Hash[:]),
		PrevIndex: txIn.PreviousOutPoint.Index,
		ScriptSig: txIn.SignatureScript,
		Sequence:  txIn.Sequence,
	}

	if psbtIn != nil {
		var utxo *btcwire.TxOut
		switch {
		case psbtIn.WitnessUtxo != nil:
			utxo = psbtIn.WitnessUtxo
		case psbtIn.NonWitnessUtxo != nil:
			vout := int(txIn.PreviousOutPoint.Index)
			if vout >= len(psbtIn.NonWitnessUtxo.TxOut) {
				return nil, newError(InvalidPsbt, "input %d: prevout index %d out of range", index, vout)
			}
			utxo = psbtIn.NonWitnessUtxo.TxOut[vout]
		default:
			return nil, newError(InvalidPsbt, "input %d: no witness_utxo or non_witness_utxo", index)
		}

		amount := uint64(utxo.Value)
		in.Amount = &amount
		in.ScriptType = classifyInputScript(utxo.PkScript, len(psbtIn.WitnessScript) > 0)
		if len(psbtIn.WitnessScript) > 0 {
			in.WitnessScript = psbtIn.WitnessScript
		}
		if len(psbtIn.Bip32Derivation) == 1 {
			in.AddressN = append([]uint32(nil), psbtIn.Bip32Derivation[0].Bip32Path...)
		}
	}

	return &messages.TxAck{Tx: &messages.TxAckTransactionType{Inputs: []*messages.TxInputType{in}}}, nil
}

// ackOutputRequest builds the TxAck for a TXOUTPUT request. Outputs of the
// transaction being signed are sent in full, so the device can show them;
// outputs of a dependent transaction are sent as bare amount+scriptPubKey,
// since the device only hashes those.
func ackOutputRequest(req *messages.TxRequest, pkt *psbt.Packet, network Network) (*messages.TxAck, error) {
	if req.Details == nil || req.Details.RequestIndex == nil {
		return nil, newError(MalformedTxRequest, "TXOUTPUT request missing details.request_index")
	}
	index := int(*req.Details.RequestIndex)

	if len(req.Details.TxHash) > 0 {
		txid, err := hashFromWire(req.Details.TxHash)
		if err != nil {
			return nil, err
		}
		depInput, err := findDependentInput(pkt, txid)
		if err != nil {
			return nil, err
		}

		var utxo *btcwire.TxOut
		switch {
		case depInput.NonWitnessUtxo != nil:
			if index >= len(depInput.NonWitnessUtxo.TxOut) {
				return nil, newError(TxRequestInvalidIndex, "dependent tx output %d", index)
			}
			utxo = depInput.NonWitnessUtxo.TxOut[index]
		case depInput.WitnessUtxo != nil && index == 0:
			utxo = depInput.WitnessUtxo
		default:
			return nil, newError(PsbtMissingInputTx, "dependent tx %s has no utxo data", txid)
		}

		bin := &messages.TxOutputBinType{Amount: uint64(utxo.Value), ScriptPubkey: utxo.PkScript}
		return &messages.TxAck{Tx: &messages.TxAckTransactionType{BinOutputs: []*messages.TxOutputBinType{bin}}}, nil
	}

	if index >= len(pkt.UnsignedTx.TxOut) || index >= len(pkt.Outputs) {
		return nil, newError(TxRequestInvalidIndex, "output %d", index)
	}
	txOut := pkt.UnsignedTx.TxOut[index]
	psbtOut := &pkt.Outputs[index]

	out := &messages.TxOutputType{Amount: uint64(txOut.Value)}

	// address_n and address are independent: address_n is set whenever
	// exactly one HD keypath is known, address is set whenever an
	// address is derivable from the scriptPubKey, regardless of whether
	// address_n also got set.
	if len(psbtOut.Bip32Derivation) == 1 {
		out.AddressN = append([]uint32(nil), psbtOut.Bip32Derivation[0].Bip32Path...)
	}

	isOpReturn := txscript.GetScriptClass(txOut.PkScript) == txscript.NullDataTy
	out.ScriptType = outputScriptType(isOpReturn, len(psbtOut.WitnessScript) > 0, len(psbtOut.RedeemScript) > 0)

	if isOpReturn {
		out.OpReturnData = opReturnData(txOut.PkScript)
		return &messages.TxAck{Tx: &messages.TxAckTransactionType{Outputs: []*messages.TxOutputType{out}}}, nil
	}

	address, ok := addressFromScript(txOut.PkScript, network)
	if !ok {
		return nil, newError(InvalidPsbt, "output %d: cannot derive an address from scriptPubKey", index)
	}
	out.Address = address
	return &messages.TxAck{Tx: &messages.TxAckTransactionType{Outputs: []*messages.TxOutputType{out}}}, nil
}

// outputScriptType classifies an output the way the device's TxAck wants:
// OP_RETURN-ness first, then the PSBT's own witness_script/redeem_script
// fields, never the on-chain scriptPubKey shape.
func outputScriptType(isOpReturn, hasWitnessScript, hasRedeemScript bool) messages.OutputScriptType {
	switch {
	case isOpReturn:
		return messages.OutputScriptType_PAYTOOPRETURN
	case hasWitnessScript && hasRedeemScript:
		return messages.OutputScriptType_PAYTOP2SHWITNESS
	case hasWitnessScript:
		return messages.OutputScriptType_PAYTOWITNESS
	default:
		return messages.OutputScriptType_PAYTOADDRESS
	}
}

// opReturnData strips the OP_RETURN opcode and length byte(s) from a
// null-data scriptPubKey, returning just the pushed data.
func opReturnData(script []byte) []byte {
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	if !tokenizer.Next() {
		return nil
	}
	if !tokenizer.Next() {
		return nil
	}
	return append([]byte(nil), tokenizer.Data()...)
}

// ackMetaRequest builds the TxAck for a TXMETA request, describing either
// the transaction being signed or, when Details.TxHash is set, the
// dependent transaction it names.
func ackMetaRequest(req *messages.TxRequest, pkt *psbt.Packet) (*messages.TxAck, error) {
	var tx *btcwire.MsgTx
	if req.Details != nil && len(req.Details.TxHash) > 0 {
		txid, err := hashFromWire(req.Details.TxHash)
		if err != nil {
			return nil, err
		}
		depInput, err := findDependentInput(pkt, txid)
		if err != nil {
			return nil, err
		}
		if depInput.NonWitnessUtxo == nil {
			return nil, newError(PsbtMissingInputTx, "dependent tx %s has no non_witness_utxo on file", txid)
		}
		tx = depInput.NonWitnessUtxo
	} else {
		tx = pkt.UnsignedTx
	}

	version := uint32(tx.Version)
	lockTime := tx.LockTime
	inputsCnt := uint32(len(tx.TxIn))
	outputsCnt := uint32(len(tx.TxOut))
	return &messages.TxAck{Tx: &messages.TxAckTransactionType{
		Version:    &version,
		LockTime:   &lockTime,
		InputsCnt:  &inputsCnt,
		OutputsCnt: &outputsCnt,
	}}, nil
}
