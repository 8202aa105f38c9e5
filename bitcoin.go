package trezor

import (
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"golang.org/x/text/unicode/norm"

	"github.com/go-trezor/trezor/messages"
)

// HardenedBit is set on a BIP-32 path element to mark it hardened
// (conventionally written n').
const HardenedBit uint32 = 0x80000000

// Hardened returns index with the hardened bit set, for building an
// AddressN path element by element.
func Hardened(index uint32) uint32 { return index | HardenedBit }

// Network names the coin a Bitcoin-family operation targets. The device
// wants a coin name string, not this enum; coinName derives it.
type Network int

const (
	NetworkBitcoin Network = iota
	NetworkTestnet
)

func coinName(n Network) (string, error) {
	switch n {
	case NetworkBitcoin:
		return "Bitcoin", nil
	case NetworkTestnet:
		return "Testnet", nil
	default:
		return "", newError(UnsupportedNetwork, "network %d", n)
	}
}

// GetPublicKey derives the extended public key at path for network,
// parsing the device's returned xpub string into a usable key.
func (c *Client) GetPublicKey(path []uint32, network Network, showDisplay bool, scriptType messages.InputScriptType) (Response[*hdkeychain.ExtendedKey], error) {
	coin, err := coinName(network)
	if err != nil {
		return Response[*hdkeychain.ExtendedKey]{}, err
	}
	req := &messages.GetPublicKey{AddressN: path, CoinName: coin, ShowDisplay: showDisplay, ScriptType: scriptType}
	return call(c, req, messages.MessageType_PublicKey,
		func(msg messages.Message) (*hdkeychain.ExtendedKey, error) {
			pub := msg.(*messages.PublicKey)
			key, err := hdkeychain.NewKeyFromString(pub.Xpub)
			if err != nil {
				return nil, wrapError(CryptoError, err)
			}
			return key, nil
		})
}

// GetAddress derives the receive address at path for network.
func (c *Client) GetAddress(path []uint32, network Network, showDisplay bool, scriptType messages.InputScriptType) (Response[string], error) {
	coin, err := coinName(network)
	if err != nil {
		return Response[string]{}, err
	}
	req := &messages.GetAddress{AddressN: path, CoinName: coin, ShowDisplay: showDisplay, ScriptType: scriptType}
	return call(c, req, messages.MessageType_Address,
		func(msg messages.Message) (string, error) {
			return msg.(*messages.Address).Address, nil
		})
}

// SignMessage proves ownership of the address at path by signing
// message, which is NFC-normalized before being sent to the device.
func (c *Client) SignMessage(path []uint32, message string, network Network, scriptType messages.InputScriptType) (Response[*messages.MessageSignature], error) {
	coin, err := coinName(network)
	if err != nil {
		return Response[*messages.MessageSignature]{}, err
	}
	normalized := []byte(norm.NFC.String(message))
	req := &messages.SignMessage{AddressN: path, Message: normalized, CoinName: coin, ScriptType: scriptType}
	return call(c, req, messages.MessageType_MessageSignature,
		func(msg messages.Message) (*messages.MessageSignature, error) {
			return msg.(*messages.MessageSignature), nil
		})
}

// VerifyMessage asks the device to verify signature against address and
// message, independent of any seed loaded on the device.
func (c *Client) VerifyMessage(address string, signature []byte, message string, network Network) (Response[struct{}], error) {
	coin, err := coinName(network)
	if err != nil {
		return Response[struct{}]{}, err
	}
	normalized := []byte(norm.NFC.String(message))
	req := &messages.VerifyMessage{Address: address, Signature: signature, Message: normalized, CoinName: coin}
	return call(c, req, messages.MessageType_Success, successUnit)
}
