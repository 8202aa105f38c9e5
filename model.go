package trezor

// Model identifies which physical device a Client is talking to, derived
// from its USB vendor/product id pair at discovery time.
type Model int

const (
	ModelUnknown Model = iota
	ModelA
	ModelB
	ModelBBootloader
)

func (m Model) String() string {
	switch m {
	case ModelA:
		return "Model A"
	case ModelB:
		return "Model B"
	case ModelBBootloader:
		return "Model B (bootloader)"
	default:
		return "unknown model"
	}
}

// usbIDs maps (vendor, product) to the model it identifies.
var usbIDs = map[[2]uint16]Model{
	{0x534C, 0x0001}: ModelA,
	{0x1209, 0x53C1}: ModelB,
	{0x1209, 0x53C0}: ModelBBootloader,
}

func modelFromUSBID(vendor, product uint16) Model {
	if m, ok := usbIDs[[2]uint16{vendor, product}]; ok {
		return m
	}
	return ModelUnknown
}

// ModelFromUSBID exposes modelFromUSBID to the discovery package, which
// needs it to classify devices it enumerates without reaching into this
// package's internals.
func ModelFromUSBID(vendor, product uint16) Model { return modelFromUSBID(vendor, product) }

// TransportKey identifies a specific device instance for a given Model:
// a serial number on legacy-HID, or a (bus, address) pair on WebUSB.
type TransportKey struct {
	Serial string
	Bus    int
	Addr   int
}

// DeviceIdentity is everything Discovery knows about a device before it
// is connected.
type DeviceIdentity struct {
	Model Model
	Debug bool
	Key   TransportKey
}
