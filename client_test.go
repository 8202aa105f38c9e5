package trezor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-trezor/trezor/messages"
)

// fakeTransport is an in-memory transport stand-in: WriteMessage records
// the type of each sent message, and each call to ReadMessage returns the
// next scripted response off a queue, the same role the fake Link plays
// one layer down for framer tests.
type fakeTransport struct {
	responses []fakeResponse
	sent      []messages.MessageType
	closed    bool
}

type fakeResponse struct {
	messageType messages.MessageType
	msg         messages.Message
}

func (f *fakeTransport) SessionBegin() error { return nil }
func (f *fakeTransport) SessionEnd() error   { return nil }
func (f *fakeTransport) Close() error        { f.closed = true; return nil }

func (f *fakeTransport) WriteMessage(messageType uint32, payload []byte) error {
	f.sent = append(f.sent, messages.MessageType(messageType))
	return nil
}

func (f *fakeTransport) ReadMessage() (uint32, []byte, error) {
	if len(f.responses) == 0 {
		return 0, nil, newError(ReceiveMessage, "fakeTransport: no more responses queued")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	payload, err := messages.Encode(next.msg)
	if err != nil {
		return 0, nil, err
	}
	return uint32(next.messageType), payload, nil
}

func newTestClient(t *testing.T, responses ...fakeResponse) (*Client, *fakeTransport) {
	t.Helper()
	tr := &fakeTransport{responses: responses}
	c, err := newClient(tr, DeviceIdentity{Model: ModelA})
	require.NoError(t, err)
	return c, tr
}

func TestPingRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, fakeResponse{
		messageType: messages.MessageType_Success,
		msg:         &messages.Success{Message: "pong"},
	})
	resp, err := c.Ping("ping")
	require.NoError(t, err)
	got, ok := resp.Ok()
	require.True(t, ok)
	assert.Equal(t, "pong", got)
}

func TestCallSurfacesFailure(t *testing.T) {
	c, _ := newTestClient(t, fakeResponse{
		messageType: messages.MessageType_Failure,
		msg:         &messages.Failure{Code: 7, Message: "pin invalid"},
	})
	resp, err := c.Ping("ping")
	require.NoError(t, err)
	_, ok := resp.Ok()
	assert.False(t, ok)
	fail, ok := resp.Failure()
	require.True(t, ok)
	assert.EqualValues(t, 7, fail.Code)
	assert.Equal(t, "pin invalid", fail.Message)

	_, err = resp.Unwrap()
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, FailureResponse, terr.Kind)
}

func TestCallSurfacesInvalidMessageType(t *testing.T) {
	c, _ := newTestClient(t, fakeResponse{
		messageType: messages.MessageType(999999),
		msg:         &messages.Success{Message: "pong"},
	})
	_, err := c.Ping("ping")
	require.Error(t, err)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, InvalidMessageType, terr.Kind)
}

func TestChangePinButtonThenPinMatrixChain(t *testing.T) {
	c, _ := newTestClient(t,
		fakeResponse{
			messageType: messages.MessageType_ButtonRequest,
			msg:         &messages.ButtonRequest{Code: messages.ButtonRequestType_Other},
		},
		fakeResponse{
			messageType: messages.MessageType_PinMatrixRequest,
			msg:         &messages.PinMatrixRequest{Type_: messages.PinMatrixRequestType_NewFirst},
		},
		fakeResponse{
			messageType: messages.MessageType_PinMatrixRequest,
			msg:         &messages.PinMatrixRequest{Type_: messages.PinMatrixRequestType_NewSecond},
		},
		fakeResponse{
			messageType: messages.MessageType_Success,
			msg:         &messages.Success{Message: ""},
		},
	)

	resp, err := c.ChangePin(false)
	require.NoError(t, err)

	btn, ok := resp.ButtonRequest()
	require.True(t, ok)

	resp, err = btn.Ack()
	require.NoError(t, err)
	pin1, ok := resp.PinMatrixRequest()
	require.True(t, ok)
	assert.Equal(t, messages.PinMatrixRequestType_NewFirst, pin1.Kind())

	resp, err = pin1.Ack("123456")
	require.NoError(t, err)
	pin2, ok := resp.PinMatrixRequest()
	require.True(t, ok)
	assert.Equal(t, messages.PinMatrixRequestType_NewSecond, pin2.Kind())

	resp, err = pin2.Ack("123456")
	require.NoError(t, err)
	_, ok = resp.Ok()
	assert.True(t, ok)
}

func TestPassphraseRequestOnDevice(t *testing.T) {
	c, _ := newTestClient(t,
		fakeResponse{
			messageType: messages.MessageType_PassphraseRequest,
			msg:         &messages.PassphraseRequest{OnDevice: true},
		},
		fakeResponse{
			messageType: messages.MessageType_Features,
			msg:         &messages.Features{},
		},
	)

	resp, err := c.Initialize(nil)
	require.NoError(t, err)
	req, ok := resp.PassphraseRequest()
	require.True(t, ok)
	assert.True(t, req.OnDevice())

	resp, err = req.Ack(nil)
	require.NoError(t, err)
	_, ok = resp.Ok()
	assert.True(t, ok)
	assert.NotNil(t, c.Features())
}

func TestClearSessionDropsCachedFeatures(t *testing.T) {
	c, _ := newTestClient(t,
		fakeResponse{messageType: messages.MessageType_Features, msg: &messages.Features{}},
		fakeResponse{messageType: messages.MessageType_Success, msg: &messages.Success{}},
	)

	_, err := c.Initialize(nil)
	require.NoError(t, err)
	require.NotNil(t, c.Features())

	resp, err := c.ClearSession()
	require.NoError(t, err)
	_, ok := resp.Ok()
	require.True(t, ok)
	assert.Nil(t, c.Features())
}
