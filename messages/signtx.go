package messages

import "google.golang.org/protobuf/encoding/protowire"

// TxRequestType tells the host what the device needs next during a SignTx
// coroutine: another input, another output, transaction metadata, a chunk
// of extra witness/segwit data, or a signal that signing is complete.
type TxRequestType uint32

const (
	TxRequestType_TXINPUT TxRequestType = iota
	TxRequestType_TXOUTPUT
	TxRequestType_TXMETA
	TxRequestType_TXFINISHED
	TxRequestType_TXEXTRADATA
)

// TxRequestDetailsType pinpoints which input/output/meta the device is
// asking about, and which previous transaction it belongs to.
type TxRequestDetailsType struct {
	RequestIndex    *uint32
	TxHash          []byte
	ExtraDataLen    *uint32
	ExtraDataOffset *uint32
}

func marshalDetails(b []byte, fieldNum protowire.Number, d *TxRequestDetailsType) []byte {
	if d == nil {
		return b
	}
	var nb []byte
	if d.RequestIndex != nil {
		nb = putUint32(nb, 1, *d.RequestIndex)
	}
	if len(d.TxHash) > 0 {
		nb = putBytes(nb, 2, d.TxHash)
	}
	if d.ExtraDataLen != nil {
		nb = putUint32(nb, 3, *d.ExtraDataLen)
	}
	if d.ExtraDataOffset != nil {
		nb = putUint32(nb, 4, *d.ExtraDataOffset)
	}
	return putBytes(b, fieldNum, nb)
}

func unmarshalDetails(data []byte) (*TxRequestDetailsType, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	d := &TxRequestDetailsType{}
	for _, f := range fields {
		switch f.Num {
		case 1:
			d.RequestIndex = optU32(f.Uint)
		case 2:
			d.TxHash = f.Bytes
		case 3:
			d.ExtraDataLen = optU32(f.Uint)
		case 4:
			d.ExtraDataOffset = optU32(f.Uint)
		}
	}
	return d, nil
}

// TxRequestSerializedType carries a chunk of the final serialized
// transaction, and the signature for one input, as they become available.
type TxRequestSerializedType struct {
	SignatureIndex *uint32
	Signature      []byte
	SerializedTx   []byte
}

func marshalSerialized(b []byte, fieldNum protowire.Number, s *TxRequestSerializedType) []byte {
	if s == nil {
		return b
	}
	var nb []byte
	if s.SignatureIndex != nil {
		nb = putUint32(nb, 1, *s.SignatureIndex)
	}
	if len(s.Signature) > 0 {
		nb = putBytes(nb, 2, s.Signature)
	}
	if len(s.SerializedTx) > 0 {
		nb = putBytes(nb, 3, s.SerializedTx)
	}
	return putBytes(b, fieldNum, nb)
}

func unmarshalSerialized(data []byte) (*TxRequestSerializedType, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	s := &TxRequestSerializedType{}
	for _, f := range fields {
		switch f.Num {
		case 1:
			s.SignatureIndex = optU32(f.Uint)
		case 2:
			s.Signature = f.Bytes
		case 3:
			s.SerializedTx = f.Bytes
		}
	}
	return s, nil
}

// TxRequest is the device's half of the SignTx coroutine: it names what
// it wants next (RequestType/Details) and, once available, hands back
// signature and serialized-transaction bytes (Serialized).
type TxRequest struct {
	RequestType TxRequestType
	Details     *TxRequestDetailsType
	Serialized  *TxRequestSerializedType
}

func (m *TxRequest) Type() MessageType { return MessageType_TxRequest }
func (m *TxRequest) Marshal() ([]byte, error) {
	b := putUint32(nil, 1, uint32(m.RequestType))
	b = marshalDetails(b, 2, m.Details)
	b = marshalSerialized(b, 3, m.Serialized)
	return b, nil
}
func (m *TxRequest) Unmarshal(data []byte) error {
	*m = TxRequest{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.RequestType = TxRequestType(f.Uint)
		case 2:
			d, err := unmarshalDetails(f.Bytes)
			if err != nil {
				return err
			}
			m.Details = d
		case 3:
			s, err := unmarshalSerialized(f.Bytes)
			if err != nil {
				return err
			}
			m.Serialized = s
		}
	}
	return nil
}

// MultisigRedeemScriptType describes an input's multisig redeem script,
// carried only when TxInputType.ScriptType is SPENDMULTISIG.
type MultisigRedeemScriptType struct {
	SignatureCount uint32
}

// TxInputType describes one input of the transaction being signed, as
// relayed from the PSBT the host is driving through.
type TxInputType struct {
	AddressN     []uint32
	PrevHash     []byte
	PrevIndex    uint32
	ScriptSig    []byte
	Sequence     uint32
	ScriptType   InputScriptType
	Amount       *uint64
	Multisig     *MultisigRedeemScriptType
	WitnessScript []byte
	OrigHash     []byte
	OrigIndex    *uint32
}

func (in *TxInputType) marshal() []byte {
	var b []byte
	for _, n := range in.AddressN {
		b = putUint32(b, 1, n)
	}
	b = putBytes(b, 2, in.PrevHash)
	b = putUint32(b, 3, in.PrevIndex)
	if len(in.ScriptSig) > 0 {
		b = putBytes(b, 4, in.ScriptSig)
	}
	b = putUint32(b, 5, in.Sequence)
	b = putUint32(b, 6, uint32(in.ScriptType))
	if in.Amount != nil {
		b = putUint64(b, 7, *in.Amount)
	}
	if len(in.WitnessScript) > 0 {
		b = putBytes(b, 10, in.WitnessScript)
	}
	if len(in.OrigHash) > 0 {
		b = putBytes(b, 11, in.OrigHash)
	}
	if in.OrigIndex != nil {
		b = putUint32(b, 12, *in.OrigIndex)
	}
	return b
}

func unmarshalInput(data []byte) (*TxInputType, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	in := &TxInputType{}
	for _, f := range fields {
		switch f.Num {
		case 1:
			in.AddressN = append(in.AddressN, uint32(f.Uint))
		case 2:
			in.PrevHash = f.Bytes
		case 3:
			in.PrevIndex = uint32(f.Uint)
		case 4:
			in.ScriptSig = f.Bytes
		case 5:
			in.Sequence = uint32(f.Uint)
		case 6:
			in.ScriptType = InputScriptType(f.Uint)
		case 7:
			in.Amount = optU64(f.Uint)
		case 10:
			in.WitnessScript = f.Bytes
		case 11:
			in.OrigHash = f.Bytes
		case 12:
			in.OrigIndex = optU32(f.Uint)
		}
	}
	return in, nil
}

// TxOutputType describes one output of the transaction being constructed.
// Address and AddressN are independent and may both be set; OpReturnData
// is set for an OP_RETURN output, which carries no Address.
type TxOutputType struct {
	Address      string
	AddressN     []uint32
	Amount       uint64
	ScriptType   OutputScriptType
	OpReturnData []byte
}

func (out *TxOutputType) marshal() []byte {
	var b []byte
	if out.Address != "" {
		b = putString(b, 1, out.Address)
	}
	for _, n := range out.AddressN {
		b = putUint32(b, 2, n)
	}
	b = putUint64(b, 3, out.Amount)
	b = putUint32(b, 4, uint32(out.ScriptType))
	if len(out.OpReturnData) > 0 {
		b = putBytes(b, 6, out.OpReturnData)
	}
	return b
}

func unmarshalOutput(data []byte) (*TxOutputType, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	out := &TxOutputType{}
	for _, f := range fields {
		switch f.Num {
		case 1:
			out.Address = string(f.Bytes)
		case 2:
			out.AddressN = append(out.AddressN, uint32(f.Uint))
		case 3:
			out.Amount = f.Uint
		case 4:
			out.ScriptType = OutputScriptType(f.Uint)
		case 6:
			out.OpReturnData = f.Bytes
		}
	}
	return out, nil
}

// TxOutputBinType describes one output of a dependent (already-mined)
// transaction: just the amount and the raw scriptPubKey, since the device
// only needs to hash it, never to show or reclassify it.
type TxOutputBinType struct {
	Amount       uint64
	ScriptPubkey []byte
}

func (out *TxOutputBinType) marshal() []byte {
	b := putUint64(nil, 1, out.Amount)
	b = putBytes(b, 2, out.ScriptPubkey)
	return b
}

func unmarshalOutputBin(data []byte) (*TxOutputBinType, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	out := &TxOutputBinType{}
	for _, f := range fields {
		switch f.Num {
		case 1:
			out.Amount = f.Uint
		case 2:
			out.ScriptPubkey = f.Bytes
		}
	}
	return out, nil
}

// TxAckTransactionType is the payload of a TxAck: either the transaction's
// metadata (version/lock-time/counts), one input, one output (full or, for
// a dependent transaction, binary-only), or a chunk of extra data,
// depending on what the preceding TxRequest asked for.
type TxAckTransactionType struct {
	Version      *uint32
	LockTime     *uint32
	InputsCnt    *uint32
	OutputsCnt   *uint32
	Inputs       []*TxInputType
	Outputs      []*TxOutputType
	BinOutputs   []*TxOutputBinType
	ExtraData    []byte
	ExtraDataLen *uint32
}

func (m *TxAckTransactionType) Marshal() ([]byte, error) {
	var b []byte
	if m.Version != nil {
		b = putUint32(b, 1, *m.Version)
	}
	for _, in := range m.Inputs {
		b = putBytes(b, 2, in.marshal())
	}
	for _, out := range m.Outputs {
		b = putBytes(b, 3, out.marshal())
	}
	if m.LockTime != nil {
		b = putUint32(b, 4, *m.LockTime)
	}
	if m.InputsCnt != nil {
		b = putUint32(b, 5, *m.InputsCnt)
	}
	if m.OutputsCnt != nil {
		b = putUint32(b, 6, *m.OutputsCnt)
	}
	if len(m.ExtraData) > 0 {
		b = putBytes(b, 7, m.ExtraData)
	}
	if m.ExtraDataLen != nil {
		b = putUint32(b, 8, *m.ExtraDataLen)
	}
	for _, out := range m.BinOutputs {
		b = putBytes(b, 9, out.marshal())
	}
	return b, nil
}

func unmarshalTxAckTransaction(data []byte) (*TxAckTransactionType, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	t := &TxAckTransactionType{}
	for _, f := range fields {
		switch f.Num {
		case 1:
			t.Version = optU32(f.Uint)
		case 2:
			in, err := unmarshalInput(f.Bytes)
			if err != nil {
				return nil, err
			}
			t.Inputs = append(t.Inputs, in)
		case 3:
			out, err := unmarshalOutput(f.Bytes)
			if err != nil {
				return nil, err
			}
			t.Outputs = append(t.Outputs, out)
		case 4:
			t.LockTime = optU32(f.Uint)
		case 5:
			t.InputsCnt = optU32(f.Uint)
		case 6:
			t.OutputsCnt = optU32(f.Uint)
		case 7:
			t.ExtraData = f.Bytes
		case 8:
			t.ExtraDataLen = optU32(f.Uint)
		case 9:
			out, err := unmarshalOutputBin(f.Bytes)
			if err != nil {
				return nil, err
			}
			t.BinOutputs = append(t.BinOutputs, out)
		}
	}
	return t, nil
}

// SignTx kicks off the signing coroutine, telling the device only the
// transaction's shape; the device then drives the exchange via TxRequest.
type SignTx struct {
	OutputsCount uint32
	InputsCount  uint32
	CoinName     string
	Version      uint32
	LockTime     uint32
}

func (m *SignTx) Type() MessageType { return MessageType_SignTx }
func (m *SignTx) Marshal() ([]byte, error) {
	b := putUint32(nil, 1, m.OutputsCount)
	b = putUint32(b, 2, m.InputsCount)
	if m.CoinName != "" {
		b = putString(b, 3, m.CoinName)
	}
	b = putUint32(b, 4, m.Version)
	b = putUint32(b, 5, m.LockTime)
	return b, nil
}
func (m *SignTx) Unmarshal(data []byte) error {
	*m = SignTx{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.OutputsCount = uint32(f.Uint)
		case 2:
			m.InputsCount = uint32(f.Uint)
		case 3:
			m.CoinName = string(f.Bytes)
		case 4:
			m.Version = uint32(f.Uint)
		case 5:
			m.LockTime = uint32(f.Uint)
		}
	}
	return nil
}

// TxAck answers one TxRequest: the transaction metadata, one input, one
// output, or an extra-data chunk, wrapped in Tx.
type TxAck struct {
	Tx *TxAckTransactionType
}

func (m *TxAck) Type() MessageType { return MessageType_TxAck }
func (m *TxAck) Marshal() ([]byte, error) {
	if m.Tx == nil {
		return nil, nil
	}
	nb, err := m.Tx.Marshal()
	if err != nil {
		return nil, err
	}
	return putBytes(nil, 1, nb), nil
}
func (m *TxAck) Unmarshal(data []byte) error {
	*m = TxAck{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			t, err := unmarshalTxAckTransaction(f.Bytes)
			if err != nil {
				return err
			}
			m.Tx = t
		}
	}
	return nil
}
