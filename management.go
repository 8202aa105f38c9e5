package trezor

import "github.com/go-trezor/trezor/messages"

// EntropyRequestContinuation is reset_device's terminal continuation:
// the device has generated (or is about to generate) a new seed
// internally and wants the host to contribute entropy to mix in. It
// must be acked with exactly 32 bytes.
type EntropyRequestContinuation struct {
	client *Client
}

// AckEntropy relays entropy, which must be exactly 32 bytes, and
// resumes the call.
func (e *EntropyRequestContinuation) AckEntropy(entropy []byte) (Response[struct{}], error) {
	if len(entropy) != 32 {
		return Response[struct{}]{}, newError(InvalidEntropy, "got %d bytes, want 32", len(entropy))
	}
	return call(e.client, &messages.EntropyAck{Entropy: entropy}, messages.MessageType_Success, successUnit)
}

// ResetDevice asks the device to generate a brand-new seed; the host
// never learns the seed, only the EntropyRequestContinuation that lets
// it contribute additional entropy.
func (c *Client) ResetDevice(req messages.ResetDevice) (Response[*EntropyRequestContinuation], error) {
	return call(c, &req, messages.MessageType_EntropyRequest,
		func(messages.Message) (*EntropyRequestContinuation, error) {
			return &EntropyRequestContinuation{client: c}, nil
		})
}

// BackupDevice asks an already-initialized device to show its recovery
// seed on-screen.
func (c *Client) BackupDevice() (Response[struct{}], error) {
	return call(c, &messages.BackupDevice{}, messages.MessageType_Success, successUnit)
}

// RecoverDevice restores a wallet from an existing seed entered word by
// word; the caller drives the returned Response's WordRequest branch in
// a loop until it resolves to Ok or Failure.
func (c *Client) RecoverDevice(req messages.RecoveryDevice) (Response[struct{}], error) {
	return call(c, &req, messages.MessageType_Success, successUnit)
}

// GetFeatures re-reads the device's Features snapshot without a full
// Initialize, and refreshes the locally cached copy.
func (c *Client) GetFeatures() (Response[*messages.Features], error) {
	resp, err := call(c, &messages.GetFeatures{}, messages.MessageType_Features,
		func(msg messages.Message) (*messages.Features, error) {
			return msg.(*messages.Features), nil
		})
	if err == nil {
		if f, ok := resp.Ok(); ok {
			c.features = f
		}
	}
	return resp, err
}
