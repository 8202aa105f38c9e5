package messages

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// rawField is one decoded (tag, value) pair from a wire-format message,
// used as an intermediate representation so each message's Unmarshal only
// has to switch on field number instead of re-walking the byte stream.
type rawField struct {
	Num   protowire.Number
	Typ   protowire.Type
	Uint  uint64
	Bytes []byte
}

func parseFields(b []byte) ([]rawField, error) {
	var out []rawField
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("messages: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		var f rawField
		f.Num, f.Typ = num, typ
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("messages: bad varint: %w", protowire.ParseError(n))
			}
			f.Uint = v
			b = b[n:]
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return nil, fmt.Errorf("messages: bad fixed32: %w", protowire.ParseError(n))
			}
			f.Uint = uint64(v)
			b = b[n:]
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, fmt.Errorf("messages: bad fixed64: %w", protowire.ParseError(n))
			}
			f.Uint = v
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("messages: bad length-delimited field: %w", protowire.ParseError(n))
			}
			f.Bytes = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("messages: bad field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
		out = append(out, f)
	}
	return out, nil
}

func putUint64(b []byte, n protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, n, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func putUint32(b []byte, n protowire.Number, v uint32) []byte {
	return putUint64(b, n, uint64(v))
}

func putBool(b []byte, n protowire.Number, v bool) []byte {
	if v {
		return putUint64(b, n, 1)
	}
	return putUint64(b, n, 0)
}

func putBytes(b []byte, n protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, n, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func putString(b []byte, n protowire.Number, v string) []byte {
	return putBytes(b, n, []byte(v))
}

func optU32(u uint64) *uint32 {
	v := uint32(u)
	return &v
}

func optU64(u uint64) *uint64 {
	return &u
}

func optBool(u uint64) *bool {
	v := u != 0
	return &v
}
