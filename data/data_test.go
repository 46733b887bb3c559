package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSeededPrng(t *testing.T) {
	d := EncodeSeededPrng(42, []uint32{3, 2, 1})

	decoded, err := DecodePrng(d)
	require.NoError(t, err)
	assert.False(t, decoded.Replayed)
	assert.Equal(t, uint32(42), decoded.Seed)
	assert.Equal(t, []uint32{3, 2, 1}, decoded.Choices)
	assert.Equal(t, d, decoded.Uplc)
}

func TestEncodeDecodeReplayedPrng(t *testing.T) {
	d := EncodeReplayedPrng([]uint32{7, 8})

	decoded, err := DecodePrng(d)
	require.NoError(t, err)
	assert.True(t, decoded.Replayed)
	assert.Equal(t, []uint32{7, 8}, decoded.Choices)
}

func TestDecodePrngRejectsWrongTag(t *testing.T) {
	_, err := DecodePrng(Constr{Tag: ConstructorTag(5), Fields: nil})
	assert.ErrorIs(t, err, ErrMalformedFuzzerResult)
}

func TestDecodeFuzzerResultSome(t *testing.T) {
	prng := EncodeSeededPrng(1, nil)
	value := IntegerFromInt64(99)

	result := EncodeFuzzerSome(prng, value)

	decoded, gotValue, ok, err := DecodeFuzzerResult(result)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), decoded.Seed)
	assert.Equal(t, value, gotValue)
}

func TestDecodeFuzzerResultNone(t *testing.T) {
	_, _, ok, err := DecodeFuzzerResult(EncodeFuzzerNone())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeFuzzerResultMalformedTuple(t *testing.T) {
	malformed := Constr{
		Tag:    ConstructorTag(optionSomeIndex),
		Fields: []Data{List{Items: []Data{IntegerFromInt64(1)}}},
	}
	_, _, _, err := DecodeFuzzerResult(malformed)
	assert.ErrorIs(t, err, ErrMalformedFuzzerResult)
}

func TestCBORRoundTrip(t *testing.T) {
	original := Constr{
		Tag: ConstructorTag(0),
		Fields: []Data{
			IntegerFromInt64(-12345),
			List{Items: []Data{ByteString{Bytes: []byte{1, 2, 3}}}},
			Map{Pairs: []Pair{{Key: IntegerFromInt64(1), Value: IntegerFromInt64(2)}}},
		},
	}

	b, err := MarshalCBOR(original)
	require.NoError(t, err)

	decoded, err := UnmarshalCBOR(b)
	require.NoError(t, err)
	assert.Equal(t, original.String(), decoded.String())
}

func TestAsUint32RejectsOverflow(t *testing.T) {
	huge := IntegerFromInt64(1)
	huge.Int.Lsh(huge.Int, 64)
	_, ok := AsUint32(huge)
	assert.False(t, ok)
}
