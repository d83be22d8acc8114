package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// GLB container errors.
var (
	ErrInvalidGLBMagic      = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLBFormat = errors.New("unsupported GLB container version")
	ErrTruncatedGLB         = errors.New("truncated GLB container")
	ErrMissingJSONChunk     = errors.New("GLB container has no JSON chunk")
)

const (
	glbMagic         = "glTF"
	glbVersion       = 2
	glbHeaderSize    = 12
	glbChunkHeader   = 8
	glbChunkTypeJSON = 0x4E4F534A
	glbChunkTypeBIN  = 0x004E4942
)

type glbHeader struct {
	Magic   [4]byte
	Version uint32
	Length  uint32
}

type glbChunk struct {
	Length uint32
	Type   uint32
}

// ParseGLB parses a binary (.glb) container. The JSON chunk becomes the
// document; a BIN chunk, if present, backs the first buffer.
func ParseGLB(data []byte) (*Document, error) {
	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrTruncatedGLB, err)
	}
	if string(header.Magic[:]) != glbMagic {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidGLBMagic, header.Magic)
	}
	if header.Version != glbVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedGLBFormat, header.Version)
	}
	if int64(header.Length) > int64(len(data)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d",
			ErrTruncatedGLB, header.Length, len(data))
	}

	var jsonChunk, binChunk []byte
	for {
		var chunk glbChunk
		err := binary.Read(r, binary.LittleEndian, &chunk)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading chunk header: %v", ErrTruncatedGLB, err)
		}

		// Bound the allocation before trusting the declared length.
		if int64(chunk.Length) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: chunk declares %d bytes, %d remain",
				ErrTruncatedGLB, chunk.Length, r.Len())
		}
		payload := make([]byte, chunk.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("%w: chunk declares %d bytes: %v",
				ErrTruncatedGLB, chunk.Length, err)
		}

		switch chunk.Type {
		case glbChunkTypeJSON:
			if jsonChunk == nil {
				jsonChunk = payload
			}
		case glbChunkTypeBIN:
			if binChunk == nil {
				binChunk = payload
			}
		default:
			// Unknown chunk types are skipped.
		}

		// Chunks are 4-byte aligned; the declared length excludes padding.
		if pad := int(chunk.Length) % 4; pad != 0 {
			if _, err := r.Seek(int64(4-pad), io.SeekCurrent); err != nil {
				break
			}
		}
	}

	if jsonChunk == nil {
		return nil, ErrMissingJSONChunk
	}

	doc, err := ParseJSON(jsonChunk)
	if err != nil {
		return nil, err
	}

	if binChunk != nil && len(doc.Buffers) > 0 && doc.Buffers[0].URI == "" {
		buf := &doc.Buffers[0]
		if buf.ByteLength < 0 || buf.ByteLength > len(binChunk) {
			return nil, fmt.Errorf("%w: buffer 0 declares %d bytes, BIN chunk has %d",
				ErrTruncatedGLB, buf.ByteLength, len(binChunk))
		}
		// The BIN chunk may carry trailing alignment padding.
		buf.Data = binChunk[:buf.ByteLength]
	}

	return doc, nil
}
