package export

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts values to and from bytes.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(b []byte) (V, error)
}

var (
	_ Codec[models.Value] = Msgpack{}
	_ Codec[models.Value] = CBOR{}
)

// Msgpack encodes typed values as MessagePack envelopes. The zero value is
// ready to use.
type Msgpack struct{}

func (Msgpack) Encode(v models.Value) ([]byte, error) {
	e, err := ToEnvelope(v)
	if err != nil {
		return nil, err
	}
	b, err := msgpack.Marshal(e)
	if err != nil {
		return nil, errors.NewSerializeError("failed to encode msgpack", err)
	}
	return b, nil
}

func (Msgpack) Decode(b []byte) (models.Value, error) {
	var e Envelope
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return nil, errors.NewParsingError("failed to decode msgpack", err)
	}
	return FromEnvelope(&e)
}

// CBOR encodes typed values as CBOR envelopes. The zero value is NOT ready to
// use. Construct with NewCBOR.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBOR constructs a CBOR codec. With deterministic set the output follows
// the RFC 8949 core deterministic encoding, so equal values give equal bytes.
func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, errors.NewConfigError("invalid CBOR encoding options", err)
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR{}, errors.NewConfigError("invalid CBOR decoding options", err)
	}
	return CBOR{enc: em, dec: dm}, nil
}

func (c CBOR) Encode(v models.Value) ([]byte, error) {
	e, err := ToEnvelope(v)
	if err != nil {
		return nil, err
	}
	b, err := c.enc.Marshal(e)
	if err != nil {
		return nil, errors.NewSerializeError("failed to encode CBOR", err)
	}
	return b, nil
}

func (c CBOR) Decode(b []byte) (models.Value, error) {
	var e Envelope
	if err := c.dec.Unmarshal(b, &e); err != nil {
		return nil, errors.NewParsingError("failed to decode CBOR", err)
	}
	return FromEnvelope(&e)
}
