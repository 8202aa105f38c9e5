package messages

// Initialize begins (or resumes) a session with the device.
type Initialize struct {
	SessionID []byte
}

func (m *Initialize) Type() MessageType { return MessageType_Initialize }

func (m *Initialize) Marshal() ([]byte, error) {
	var b []byte
	if len(m.SessionID) > 0 {
		b = putBytes(b, 1, m.SessionID)
	}
	return b, nil
}

func (m *Initialize) Unmarshal(data []byte) error {
	*m = Initialize{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.SessionID = f.Bytes
		}
	}
	return nil
}

// Features is the device's static capability/state snapshot, cached by
// Client after each successful Initialize or GetFeatures call.
type Features struct {
	Vendor                string
	MajorVersion          uint32
	MinorVersion          uint32
	PatchVersion          uint32
	BootloaderMode        bool
	DeviceID              string
	PinProtection         bool
	PassphraseProtection  bool
	Language              string
	Label                 string
	Initialized           bool
	Revision              []byte
	BootloaderHash        []byte
	Imported              bool
	PinCached             bool
	PassphraseCached      bool
	Model                 string
}

func (m *Features) Type() MessageType { return MessageType_Features }

func (m *Features) Marshal() ([]byte, error) {
	var b []byte
	b = putString(b, 1, m.Vendor)
	b = putUint32(b, 2, m.MajorVersion)
	b = putUint32(b, 3, m.MinorVersion)
	b = putUint32(b, 4, m.PatchVersion)
	b = putBool(b, 5, m.BootloaderMode)
	b = putString(b, 6, m.DeviceID)
	b = putBool(b, 7, m.PinProtection)
	b = putBool(b, 8, m.PassphraseProtection)
	b = putString(b, 9, m.Language)
	b = putString(b, 10, m.Label)
	b = putBool(b, 12, m.Initialized)
	b = putBytes(b, 13, m.Revision)
	b = putBytes(b, 14, m.BootloaderHash)
	b = putBool(b, 15, m.Imported)
	b = putBool(b, 20, m.PinCached)
	b = putBool(b, 21, m.PassphraseCached)
	b = putString(b, 22, m.Model)
	return b, nil
}

func (m *Features) Unmarshal(data []byte) error {
	*m = Features{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Vendor = string(f.Bytes)
		case 2:
			m.MajorVersion = uint32(f.Uint)
		case 3:
			m.MinorVersion = uint32(f.Uint)
		case 4:
			m.PatchVersion = uint32(f.Uint)
		case 5:
			m.BootloaderMode = f.Uint != 0
		case 6:
			m.DeviceID = string(f.Bytes)
		case 7:
			m.PinProtection = f.Uint != 0
		case 8:
			m.PassphraseProtection = f.Uint != 0
		case 9:
			m.Language = string(f.Bytes)
		case 10:
			m.Label = string(f.Bytes)
		case 12:
			m.Initialized = f.Uint != 0
		case 13:
			m.Revision = f.Bytes
		case 14:
			m.BootloaderHash = f.Bytes
		case 15:
			m.Imported = f.Uint != 0
		case 20:
			m.PinCached = f.Uint != 0
		case 21:
			m.PassphraseCached = f.Uint != 0
		case 22:
			m.Model = string(f.Bytes)
		}
	}
	return nil
}

// Ping asks the device to echo a message back in a Success reply.
type Ping struct {
	Message string
}

func (m *Ping) Type() MessageType { return MessageType_Ping }
func (m *Ping) Marshal() ([]byte, error) {
	return putString(nil, 1, m.Message), nil
}
func (m *Ping) Unmarshal(data []byte) error {
	*m = Ping{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Message = string(f.Bytes)
		}
	}
	return nil
}

// Success is the generic positive acknowledgement carrying an optional
// human-readable message.
type Success struct {
	Message string
}

func (m *Success) Type() MessageType { return MessageType_Success }
func (m *Success) Marshal() ([]byte, error) {
	return putString(nil, 1, m.Message), nil
}
func (m *Success) Unmarshal(data []byte) error {
	*m = Success{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Message = string(f.Bytes)
		}
	}
	return nil
}

// Failure is the generic negative response; it always terminates a call.
type Failure struct {
	Code    uint32
	Message string
}

func (m *Failure) Type() MessageType { return MessageType_Failure }
func (m *Failure) Marshal() ([]byte, error) {
	b := putUint32(nil, 1, m.Code)
	b = putString(b, 2, m.Message)
	return b, nil
}
func (m *Failure) Unmarshal(data []byte) error {
	*m = Failure{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Code = uint32(f.Uint)
		case 2:
			m.Message = string(f.Bytes)
		}
	}
	return nil
}

// ChangePin asks the device to set, change, or remove its PIN.
type ChangePin struct {
	Remove bool
}

func (m *ChangePin) Type() MessageType { return MessageType_ChangePin }
func (m *ChangePin) Marshal() ([]byte, error) {
	return putBool(nil, 1, m.Remove), nil
}
func (m *ChangePin) Unmarshal(data []byte) error {
	*m = ChangePin{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Remove = f.Uint != 0
		}
	}
	return nil
}

// WipeDevice resets the device to factory defaults.
type WipeDevice struct{}

func (m *WipeDevice) Type() MessageType         { return MessageType_WipeDevice }
func (m *WipeDevice) Marshal() ([]byte, error)  { return nil, nil }
func (m *WipeDevice) Unmarshal(data []byte) error { *m = WipeDevice{}; return nil }

// ClearSession invalidates cached secrets (PIN/passphrase) held in RAM by
// the device, without wiping it.
type ClearSession struct{}

func (m *ClearSession) Type() MessageType          { return MessageType_ClearSession }
func (m *ClearSession) Marshal() ([]byte, error)   { return nil, nil }
func (m *ClearSession) Unmarshal(data []byte) error { *m = ClearSession{}; return nil }

// Cancel aborts whatever call is currently outstanding on the device.
type Cancel struct{}

func (m *Cancel) Type() MessageType          { return MessageType_Cancel }
func (m *Cancel) Marshal() ([]byte, error)   { return nil, nil }
func (m *Cancel) Unmarshal(data []byte) error { *m = Cancel{}; return nil }

// GetEntropy requests raw random bytes from the device's hardware RNG.
type GetEntropy struct {
	Size uint32
}

func (m *GetEntropy) Type() MessageType { return MessageType_GetEntropy }
func (m *GetEntropy) Marshal() ([]byte, error) {
	return putUint32(nil, 1, m.Size), nil
}
func (m *GetEntropy) Unmarshal(data []byte) error {
	*m = GetEntropy{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Size = uint32(f.Uint)
		}
	}
	return nil
}

// Entropy carries the random bytes requested by GetEntropy.
type Entropy struct {
	Entropy []byte
}

func (m *Entropy) Type() MessageType { return MessageType_Entropy }
func (m *Entropy) Marshal() ([]byte, error) {
	return putBytes(nil, 1, m.Entropy), nil
}
func (m *Entropy) Unmarshal(data []byte) error {
	*m = Entropy{}
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

// ApplyFlags sets device-side feature flags (e.g. to permanently disable
// the passphrase cache); it never touches PIN/label/homescreen settings,
// which go through ApplySettings instead.
type ApplyFlags struct {
	Flags uint32
}

func (m *ApplyFlags) Type() MessageType { return MessageType_ApplyFlags }
func (m *ApplyFlags) Marshal() ([]byte, error) {
	return putUint32(nil, 1, m.Flags), nil
}
func (m *ApplyFlags) Unmarshal(data []byte) error {
	*m = ApplyFlags{}
	fields, err := parseFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Num == 1 {
			m.Flags = uint32(f.Uint)
		}
	}
	return nil
}
