package messages

// RecoveryDeviceType distinguishes a scrambled-word recovery (ScrambledWords)
// from the matrix-entry variant used on devices without a full keyboard.
type RecoveryDeviceType uint32

const (
	RecoveryDeviceType_ScrambledWords RecoveryDeviceType = iota
	RecoveryDeviceType_Matrix
)

// ApplySettings changes device-visible settings such as label, language,
// homescreen image, and auto-lock delay.
type ApplySettings struct {
	Label               string
	Language             string
	UsePassphrase        *bool
	Homescreen            []byte
	AutoLockDelayMs       uint32
}

func (m *ApplySettings) Type() MessageType { return MessageType_ApplySettings }
func (m *ApplySettings) Marshal() ([]byte, error) {
	var b []byte
	if m.Label != "" {
		b = putString(b, 1, m.Label)
	}
	if m.Language != "" {
		b = putString(b, 2, m.Language)
	}
	if m.UsePassphrase != nil {
		b = putBool(b, 3, *m.UsePassphrase)
	}
	if len(m.Homescreen) > 0 {
		b = putBytes(b, 4, m.Homescreen)
	}
	if m.AutoLockDelayMs != 0 {
		b = putUint32(b, 5, m.AutoLockDelayMs)
	}
	return b, nil
}
func (m *ApplySettings) Unmarshal(data []byte) error {
	*m = ApplySettings{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Label = string(f.Bytes)
		case 2:
			m.Language = string(f.Bytes)
		case 3:
			m.UsePassphrase = optBool(f.Uint)
		case 4:
			m.Homescreen = f.Bytes
		case 5:
			m.AutoLockDelayMs = uint32(f.Uint)
		}
	}
	return nil
}

// ResetDevice asks the device to generate a brand-new seed internally; the
// host never learns the seed, only the EntropyRequest exchange that follows.
type ResetDevice struct {
	DisplayRandom  bool
	Strength       uint32
	PassphraseProtection bool
	PinProtection  bool
	Language       string
	Label          string
	SkipBackup     bool
	NoBackup       bool
}

func (m *ResetDevice) Type() MessageType { return MessageType_ResetDevice }
func (m *ResetDevice) Marshal() ([]byte, error) {
	var b []byte
	b = putBool(b, 1, m.DisplayRandom)
	b = putUint32(b, 2, m.Strength)
	b = putBool(b, 3, m.PassphraseProtection)
	b = putBool(b, 4, m.PinProtection)
	if m.Language != "" {
		b = putString(b, 5, m.Language)
	}
	if m.Label != "" {
		b = putString(b, 6, m.Label)
	}
	b = putBool(b, 8, m.SkipBackup)
	b = putBool(b, 10, m.NoBackup)
	return b, nil
}
func (m *ResetDevice) Unmarshal(data []byte) error {
	*m = ResetDevice{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.DisplayRandom = f.Uint != 0
		case 2:
			m.Strength = uint32(f.Uint)
		case 3:
			m.PassphraseProtection = f.Uint != 0
		case 4:
			m.PinProtection = f.Uint != 0
		case 5:
			m.Language = string(f.Bytes)
		case 6:
			m.Label = string(f.Bytes)
		case 8:
			m.SkipBackup = f.Uint != 0
		case 10:
			m.NoBackup = f.Uint != 0
		}
	}
	return nil
}

// BackupDevice asks an already-initialized device to show its recovery
// seed on-screen for the user to write down.
type BackupDevice struct{}

func (m *BackupDevice) Type() MessageType          { return MessageType_BackupDevice }
func (m *BackupDevice) Marshal() ([]byte, error)   { return nil, nil }
func (m *BackupDevice) Unmarshal(data []byte) error { *m = BackupDevice{}; return nil }

// RecoveryDevice restores a wallet from an existing seed, entered word by
// word via the WordRequest/WordAck exchange that follows.
type RecoveryDevice struct {
	WordCount            uint32
	PassphraseProtection bool
	PinProtection        bool
	Language             string
	Label                string
	EnforceWordlist      bool
	Type_                RecoveryDeviceType
}

func (m *RecoveryDevice) Type() MessageType { return MessageType_RecoveryDevice }
func (m *RecoveryDevice) Marshal() ([]byte, error) {
	var b []byte
	b = putUint32(b, 1, m.WordCount)
	b = putBool(b, 2, m.PassphraseProtection)
	b = putBool(b, 3, m.PinProtection)
	if m.Language != "" {
		b = putString(b, 4, m.Language)
	}
	if m.Label != "" {
		b = putString(b, 5, m.Label)
	}
	b = putBool(b, 6, m.EnforceWordlist)
	b = putUint32(b, 10, uint32(m.Type_))
	return b, nil
}
func (m *RecoveryDevice) Unmarshal(data []byte) error {
	*m = RecoveryDevice{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.WordCount = uint32(f.Uint)
		case 2:
			m.PassphraseProtection = f.Uint != 0
		case 3:
			m.PinProtection = f.Uint != 0
		case 4:
			m.Language = string(f.Bytes)
		case 5:
			m.Label = string(f.Bytes)
		case 6:
			m.EnforceWordlist = f.Uint != 0
		case 10:
			m.Type_ = RecoveryDeviceType(f.Uint)
		}
	}
	return nil
}

// EntropyRequest is sent by the device mid-ResetDevice, asking the host to
// contribute host-side entropy that gets mixed into the new seed.
type EntropyRequest struct{}

func (m *EntropyRequest) Type() MessageType          { return MessageType_EntropyRequest }
func (m *EntropyRequest) Marshal() ([]byte, error)   { return nil, nil }
func (m *EntropyRequest) Unmarshal(data []byte) error { *m = EntropyRequest{}; return nil }

// EntropyAck relays host-side entropy in response to an EntropyRequest.
type EntropyAck struct {
	Entropy []byte
}

func (m *EntropyAck) Type() MessageType { return MessageType_EntropyAck }
func (m *EntropyAck) Marshal() ([]byte, error) {
	return putBytes(nil, 1, m.Entropy), nil
}
func (m *EntropyAck) Unmarshal(data []byte) error {
	*m = EntropyAck{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Entropy = f.Bytes
		}
	}
	return nil
}

// GetFeatures re-reads the device's Features snapshot without going
// through a full Initialize.
type GetFeatures struct{}

func (m *GetFeatures) Type() MessageType          { return MessageType_GetFeatures }
func (m *GetFeatures) Marshal() ([]byte, error)   { return nil, nil }
func (m *GetFeatures) Unmarshal(data []byte) error { *m = GetFeatures{}; return nil }
