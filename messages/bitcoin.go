package messages

// InputScriptType tells the device how to interpret an input's spending
// script when signing or deriving addresses.
type InputScriptType uint32

const (
	InputScriptType_SPENDADDRESS InputScriptType = iota
	InputScriptType_SPENDMULTISIG
	InputScriptType_EXTERNAL
	InputScriptType_SPENDWITNESS
	InputScriptType_SPENDP2SHWITNESS
	InputScriptType_SPENDTAPROOT
)

// OutputScriptType tells the device how to interpret an output being
// constructed during signing.
type OutputScriptType uint32

const (
	OutputScriptType_PAYTOADDRESS OutputScriptType = iota
	OutputScriptType_PAYTOSCRIPTHASH
	OutputScriptType_PAYTOMULTISIG
	OutputScriptType_PAYTOOPRETURN
	OutputScriptType_PAYTOWITNESS
	OutputScriptType_PAYTOP2SHWITNESS
	OutputScriptType_PAYTOTAPROOT
)

// GetPublicKey derives and returns the extended public key at a BIP-32
// path, for a given coin and script type.
type GetPublicKey struct {
	AddressN       []uint32
	CoinName       string
	ShowDisplay    bool
	ScriptType     InputScriptType
}

func (m *GetPublicKey) Type() MessageType { return MessageType_GetPublicKey }
func (m *GetPublicKey) Marshal() ([]byte, error) {
	var b []byte
	for _, n := range m.AddressN {
		b = putUint32(b, 1, n)
	}
	if m.CoinName != "" {
		b = putString(b, 2, m.CoinName)
	}
	b = putBool(b, 3, m.ShowDisplay)
	b = putUint32(b, 4, uint32(m.ScriptType))
	return b, nil
}
func (m *GetPublicKey) Unmarshal(data []byte) error {
	*m = GetPublicKey{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.AddressN = append(m.AddressN, uint32(f.Uint))
		case 2:
			m.CoinName = string(f.Bytes)
		case 3:
			m.ShowDisplay = f.Uint != 0
		case 4:
			m.ScriptType = InputScriptType(f.Uint)
		}
	}
	return nil
}

// PublicKey carries the derived extended public key and node metadata.
type PublicKey struct {
	Xpub          string
	ChainCode     []byte
	PublicKeyData []byte
	Depth         uint32
	Fingerprint   uint32
	ChildNum      uint32
}

func (m *PublicKey) Type() MessageType { return MessageType_PublicKey }
func (m *PublicKey) Marshal() ([]byte, error) {
	var b []byte
	nb := putBytes(nil, 1, m.ChainCode)
	nb = putBytes(nb, 2, m.PublicKeyData)
	nb = putUint32(nb, 3, m.Depth)
	nb = putUint32(nb, 4, m.Fingerprint)
	nb = putUint32(nb, 5, m.ChildNum)
	b = putBytes(b, 1, nb)
	b = putString(b, 2, m.Xpub)
	return b, nil
}
func (m *PublicKey) Unmarshal(data []byte) error {
	*m = PublicKey{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			nested, err := parseFields(f.Bytes)
			if err != nil {
				return err
			}
			for _, nf := range nested {
				switch nf.Num {
				case 1:
					m.ChainCode = nf.Bytes
				case 2:
					m.PublicKeyData = nf.Bytes
				case 3:
					m.Depth = uint32(nf.Uint)
				case 4:
					m.Fingerprint = uint32(nf.Uint)
				case 5:
					m.ChildNum = uint32(nf.Uint)
				}
			}
		case 2:
			m.Xpub = string(f.Bytes)
		}
	}
	return nil
}

// GetAddress derives and returns a receive address at a BIP-32 path.
type GetAddress struct {
	AddressN    []uint32
	CoinName    string
	ShowDisplay bool
	ScriptType  InputScriptType
}

func (m *GetAddress) Type() MessageType { return MessageType_GetAddress }
func (m *GetAddress) Marshal() ([]byte, error) {
	var b []byte
	for _, n := range m.AddressN {
		b = putUint32(b, 1, n)
	}
	if m.CoinName != "" {
		b = putString(b, 2, m.CoinName)
	}
	b = putBool(b, 3, m.ShowDisplay)
	b = putUint32(b, 4, uint32(m.ScriptType))
	return b, nil
}
func (m *GetAddress) Unmarshal(data []byte) error {
	*m = GetAddress{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.AddressN = append(m.AddressN, uint32(f.Uint))
		case 2:
			m.CoinName = string(f.Bytes)
		case 3:
			m.ShowDisplay = f.Uint != 0
		case 4:
			m.ScriptType = InputScriptType(f.Uint)
		}
	}
	return nil
}

// Address carries the derived address string.
type Address struct {
	Address string
}

func (m *Address) Type() MessageType { return MessageType_Address }
func (m *Address) Marshal() ([]byte, error) {
	return putString(nil, 1, m.Address), nil
}
func (m *Address) Unmarshal(data []byte) error {
	*m = Address{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Address = string(f.Bytes)
		}
	}
	return nil
}

// SignMessage asks the device to produce a deterministic signature over an
// NFC-normalized message, proving ownership of the address at a path.
type SignMessage struct {
	AddressN   []uint32
	Message    []byte
	CoinName   string
	ScriptType InputScriptType
}

func (m *SignMessage) Type() MessageType { return MessageType_SignMessage }
func (m *SignMessage) Marshal() ([]byte, error) {
	var b []byte
	for _, n := range m.AddressN {
		b = putUint32(b, 1, n)
	}
	b = putBytes(b, 2, m.Message)
	if m.CoinName != "" {
		b = putString(b, 3, m.CoinName)
	}
	b = putUint32(b, 4, uint32(m.ScriptType))
	return b, nil
}
func (m *SignMessage) Unmarshal(data []byte) error {
	*m = SignMessage{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.AddressN = append(m.AddressN, uint32(f.Uint))
		case 2:
			m.Message = f.Bytes
		case 3:
			m.CoinName = string(f.Bytes)
		case 4:
			m.ScriptType = InputScriptType(f.Uint)
		}
	}
	return nil
}

// MessageSignature carries the signing address and signature bytes
// produced by SignMessage.
type MessageSignature struct {
	Address   string
	Signature []byte
}

func (m *MessageSignature) Type() MessageType { return MessageType_MessageSignature }
func (m *MessageSignature) Marshal() ([]byte, error) {
	b := putString(nil, 1, m.Address)
	b = putBytes(b, 2, m.Signature)
	return b, nil
}
func (m *MessageSignature) Unmarshal(data []byte) error {
	*m = MessageSignature{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Address = string(f.Bytes)
		case 2:
			m.Signature = f.Bytes
		}
	}
	return nil
}

// VerifyMessage asks the device to verify a signature against an address
// and message, entirely independent of any loaded seed.
type VerifyMessage struct {
	Address   string
	Signature []byte
	Message   []byte
	CoinName  string
}

func (m *VerifyMessage) Type() MessageType { return MessageType_VerifyMessage }
func (m *VerifyMessage) Marshal() ([]byte, error) {
	b := putString(nil, 1, m.Address)
	b = putBytes(b, 2, m.Signature)
	b = putBytes(b, 3, m.Message)
	if m.CoinName != "" {
		b = putString(b, 4, m.CoinName)
	}
	return b, nil
}
func (m *VerifyMessage) Unmarshal(data []byte) error {
	*m = VerifyMessage{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Address = string(f.Bytes)
		case 2:
			m.Signature = f.Bytes
		case 3:
			m.Message = f.Bytes
		case 4:
			m.CoinName = string(f.Bytes)
		}
	}
	return nil
}
