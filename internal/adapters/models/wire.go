package models

import (
	"encoding/binary"

	dErrors "sanctum/pkg/domain-errors"
)

// Identity wire format: 8 bytes, big-endian, unsigned.
const identityWireSize = 8

// kindLenSize is the 2-byte big-endian length prefix for the kind tag.
const kindLenSize = 2

// EncodeIdentity renders an identity in its fixed wire form.
func EncodeIdentity(id uint64) []byte {
	buf := make([]byte, identityWireSize)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

// DecodeIdentity parses the 8-byte big-endian identity form.
func DecodeIdentity(data []byte) (uint64, error) {
	if len(data) != identityWireSize {
		return 0, dErrors.Newf(dErrors.CodeTranslation,
			"identity wire form must be %d bytes, got %d", identityWireSize, len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// EncodeSubstrate renders the compact fixed-layout form:
// [identity:8][kind_len:2 BE][kind bytes][params JSON, UTF-8].
func EncodeSubstrate(dto SubstrateDTO) ([]byte, error) {
	if len(dto.Kind) > 0xFFFF {
		return nil, dErrors.Newf(dErrors.CodeTranslation, "kind tag too long: %d bytes", len(dto.Kind))
	}
	buf := make([]byte, 0, identityWireSize+kindLenSize+len(dto.Kind)+len(dto.Params))
	buf = binary.BigEndian.AppendUint64(buf, dto.Identity)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(dto.Kind)))
	buf = append(buf, dto.Kind...)
	buf = append(buf, dto.Params...)
	return buf, nil
}

// DecodeSubstrate parses the fixed-layout substrate form. The params tail is
// kept as the raw UTF-8 text blob; interpretation belongs to the translator.
func DecodeSubstrate(data []byte) (SubstrateDTO, error) {
	if len(data) < identityWireSize+kindLenSize {
		return SubstrateDTO{}, dErrors.Newf(dErrors.CodeTranslation,
			"substrate wire form truncated: %d bytes", len(data))
	}
	identity := binary.BigEndian.Uint64(data[:identityWireSize])
	kindLen := int(binary.BigEndian.Uint16(data[identityWireSize : identityWireSize+kindLenSize]))
	rest := data[identityWireSize+kindLenSize:]
	if len(rest) < kindLen {
		return SubstrateDTO{}, dErrors.Newf(dErrors.CodeTranslation,
			"substrate wire form truncated: kind needs %d bytes, have %d", kindLen, len(rest))
	}
	return SubstrateDTO{
		Identity: identity,
		Kind:     string(rest[:kindLen]),
		Params:   string(rest[kindLen:]),
	}, nil
}
