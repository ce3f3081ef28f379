package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	dErrors "sanctum/pkg/domain-errors"
)

func TestIdentityWireForm(t *testing.T) {
	t.Run("eight bytes big-endian", func(t *testing.T) {
		encoded := EncodeIdentity(0x0102030405060708)
		require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, encoded)

		decoded, err := DecodeIdentity(encoded)
		require.NoError(t, err)
		require.Equal(t, uint64(0x0102030405060708), decoded)
	})

	t.Run("wrong length fails", func(t *testing.T) {
		_, err := DecodeIdentity([]byte{1, 2, 3})
		require.Error(t, err)
		require.True(t, dErrors.Is(err, dErrors.CodeTranslation))

		_, err = DecodeIdentity(make([]byte, 9))
		require.Error(t, err)
	})
}

func TestSubstrateWireForm(t *testing.T) {
	t.Run("layout round trip", func(t *testing.T) {
		dto := SubstrateDTO{
			Identity: 0xAABBCCDD,
			Kind:     "constant",
			Params:   `{"value":100}`,
		}
		encoded, err := EncodeSubstrate(dto)
		require.NoError(t, err)

		// [identity:8][kind_len:2][kind][params]
		require.Equal(t, byte(0xAA), encoded[4])
		require.Equal(t, []byte{0, 8}, encoded[8:10])
		require.Equal(t, "constant", string(encoded[10:18]))

		decoded, err := DecodeSubstrate(encoded)
		require.NoError(t, err)
		require.Equal(t, dto, decoded)
	})

	t.Run("empty params survive", func(t *testing.T) {
		dto := SubstrateDTO{Identity: 7, Kind: "timestamp"}
		encoded, err := EncodeSubstrate(dto)
		require.NoError(t, err)
		decoded, err := DecodeSubstrate(encoded)
		require.NoError(t, err)
		require.Equal(t, dto, decoded)
	})

	t.Run("truncated header fails", func(t *testing.T) {
		_, err := DecodeSubstrate([]byte{1, 2, 3})
		require.Error(t, err)
		require.True(t, dErrors.Is(err, dErrors.CodeTranslation))
	})

	t.Run("truncated kind fails", func(t *testing.T) {
		dto := SubstrateDTO{Identity: 1, Kind: "constant"}
		encoded, err := EncodeSubstrate(dto)
		require.NoError(t, err)
		_, err = DecodeSubstrate(encoded[:12])
		require.Error(t, err)
		require.True(t, dErrors.Is(err, dErrors.CodeTranslation))
	})
}
