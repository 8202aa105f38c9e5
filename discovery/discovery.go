// Package discovery enumerates attached devices over both legacy-HID and
// WebUSB, classifies them against the fixed vendor/product-id table, and
// connects the one the caller picks into a *trezor.Client.
package discovery

import (
	"fmt"
	"sync"

	"github.com/cenkalti/backoff"
	"github.com/google/gousb"
	"github.com/karalabe/hid"

	"github.com/go-trezor/trezor"
	"github.com/go-trezor/trezor/link"
	"github.com/go-trezor/trezor/transport"
)

// hidDebugInterface is the USB interface number a legacy-HID device
// exposes its debug link on, mirroring the link package's webUSBDebugInterface
// convention for WebUSB.
const hidDebugInterface = 1

// transportKindForModel reports which physical transport and framing
// version a Model is fixed to. Model A is the legacy-HID device and
// speaks V1 framing; Model B and its bootloader are WebUSB-only and
// speak V2.
func transportKindForModel(m trezor.Model) (transport.Kind, transport.FramingVersion) {
	if m == trezor.ModelA {
		return transport.KindHID, transport.FramingV1
	}
	return transport.KindWebUSB, transport.FramingV2
}

// AvailableDevice is one matched, not-yet-connected USB descriptor.
// Exactly one of its two backing handles is set, depending on Identity's
// transport kind.
type AvailableDevice struct {
	identity trezor.DeviceIdentity

	hidInfo   *hid.DeviceInfo
	usbDevice *gousb.Device
}

// Identity reports everything known about the device before connecting.
func (d *AvailableDevice) Identity() trezor.DeviceIdentity { return d.identity }

// Release closes the underlying handle without connecting, for any
// enumerated candidate the caller decides not to use. Safe to call on an
// AvailableDevice that was or was not already connected.
func (d *AvailableDevice) Release() {
	if d.usbDevice != nil {
		d.usbDevice.Close()
	}
}

// Connect opens the transport appropriate to this device's Model and
// wraps it in a Client. Transient USB claim failures (the device briefly
// held by another handle, a kernel driver detach race) are retried with
// backoff before giving up.
func (d *AvailableDevice) Connect(opts ...trezor.ClientOption) (*trezor.Client, error) {
	kind, version := transportKindForModel(d.identity.Model)
	retry := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)

	switch kind {
	case transport.KindHID:
		var l *link.HIDLink
		err := backoff.Retry(func() error {
			var openErr error
			l, openErr = link.OpenHID(*d.hidInfo, link.DefaultReadTimeout)
			return openErr
		}, retry)
		if err != nil {
			return nil, &trezor.Error{Kind: trezor.TransportConnect, Err: err}
		}
		tr := transport.New(kind, version, l, l)
		return trezor.NewClient(tr, d.identity, opts...)

	default:
		var l *link.WebUSBLink
		err := backoff.Retry(func() error {
			var openErr error
			l, openErr = link.OpenWebUSB(d.usbDevice, d.identity.Debug, link.DefaultReadTimeout)
			return openErr
		}, retry)
		if err != nil {
			return nil, &trezor.Error{Kind: trezor.TransportConnect, Err: err}
		}
		tr := transport.New(kind, version, l, l)
		return trezor.NewClient(tr, d.identity, opts...)
	}
}

// FindHIDDevices enumerates legacy-HID descriptors matching the known
// vendor/product table, filtered to the normal or debug interface
// depending on debug.
func FindHIDDevices(debug bool) ([]AvailableDevice, error) {
	infos, err := hid.Enumerate(0, 0)
	if err != nil {
		return nil, &trezor.Error{Kind: trezor.TransportConnect, Err: err}
	}

	var out []AvailableDevice
	for _, info := range infos {
		model := trezor.ModelFromUSBID(info.VendorID, info.ProductID)
		if model == trezor.ModelUnknown {
			continue
		}
		if kind, _ := transportKindForModel(model); kind != transport.KindHID {
			continue
		}
		if (info.Interface == hidDebugInterface) != debug {
			continue
		}
		info := info
		out = append(out, AvailableDevice{
			identity: trezor.DeviceIdentity{
				Model: model,
				Debug: debug,
				Key:   trezor.TransportKey{Serial: info.Serial},
			},
			hidInfo: &info,
		})
	}
	return out, nil
}

var (
	usbCtxOnce sync.Once
	usbCtx     *gousb.Context
)

// sharedUSBContext lazily opens one libusb context for the process. It is
// intentionally never closed: gousb.Device handles returned from it stay
// valid for the lifetime of any Client connected through them, which
// outlives any single discovery call.
func sharedUSBContext() *gousb.Context {
	usbCtxOnce.Do(func() { usbCtx = gousb.NewContext() })
	return usbCtx
}

// FindWebUSBDevices enumerates WebUSB descriptors matching the known
// vendor/product table. Unlike HID, a WebUSB device exposes its debug
// link as a second interface on the same descriptor rather than as a
// separate enumeration entry, so debug here only tags which interface
// Connect will later claim; it does not filter the result set.
func FindWebUSBDevices(debug bool) ([]AvailableDevice, error) {
	ctx := sharedUSBContext()
	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		model := trezor.ModelFromUSBID(uint16(desc.Vendor), uint16(desc.Product))
		if model == trezor.ModelUnknown {
			return false
		}
		kind, _ := transportKindForModel(model)
		return kind == transport.KindWebUSB
	})
	if err != nil {
		return nil, &trezor.Error{Kind: trezor.TransportConnect, Err: err}
	}

	out := make([]AvailableDevice, 0, len(devices))
	for _, d := range devices {
		model := trezor.ModelFromUSBID(uint16(d.Desc.Vendor), uint16(d.Desc.Product))
		out = append(out, AvailableDevice{
			identity: trezor.DeviceIdentity{
				Model: model,
				Debug: debug,
				Key:   trezor.TransportKey{Bus: d.Desc.Bus, Addr: d.Desc.Address},
			},
			usbDevice: d,
		})
	}
	return out, nil
}

// FindDevices enumerates every matching device over both transports.
func FindDevices(debug bool) ([]AvailableDevice, error) {
	hidDevices, err := FindHIDDevices(debug)
	if err != nil {
		return nil, err
	}
	usbDevices, err := FindWebUSBDevices(debug)
	if err != nil {
		return nil, err
	}
	return append(hidDevices, usbDevices...), nil
}

// Unique finds exactly one matching device and connects to it, failing
// with NoDeviceFound or DeviceNotUnique otherwise. Any candidate not
// selected is released.
func Unique(debug bool) (*trezor.Client, error) {
	devices, err := FindDevices(debug)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, &trezor.Error{Kind: trezor.NoDeviceFound}
	}
	if len(devices) > 1 {
		for i := range devices {
			devices[i].Release()
		}
		return nil, &trezor.Error{Kind: trezor.DeviceNotUnique, Message: fmt.Sprintf("%d candidates", len(devices))}
	}
	return devices[0].Connect()
}
