package gltf

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// Resolution errors.
var (
	ErrMissingBufferData = errors.New("buffer has neither embedded data nor uri")
	ErrShortBufferData   = errors.New("resolved data shorter than declared byteLength")
)

// Resolver materializes the payloads behind glTF URIs: data: URIs are
// decoded in place, anything else is read from disk relative to a base
// directory. File reads are cached, so documents sharing buffers across
// images and views hit the filesystem once. Safe for concurrent use.
type Resolver struct {
	baseDir string

	mu    sync.RWMutex
	cache map[string][]byte

	hits   atomic.Int64
	misses atomic.Int64
}

// NewResolver creates a resolver rooted at baseDir.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{
		baseDir: baseDir,
		cache:   make(map[string][]byte),
	}
}

// Resolve returns the bytes behind a glTF uri.
func (r *Resolver) Resolve(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return decodeDataURI(uri)
	}

	r.mu.RLock()
	data, ok := r.cache[uri]
	r.mu.RUnlock()
	if ok {
		r.hits.Add(1)
		return data, nil
	}

	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		return nil, fmt.Errorf("unescaping uri %q: %w", uri, err)
	}
	path := filepath.Join(r.baseDir, filepath.FromSlash(unescaped))
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resource %q: %w", uri, err)
	}

	r.mu.Lock()
	r.cache[uri] = data
	r.mu.Unlock()
	r.misses.Add(1)
	return data, nil
}

// Stats returns cache hit/miss counts.
func (r *Resolver) Stats() (hits, misses int) {
	return int(r.hits.Load()), int(r.misses.Load())
}

// decodeDataURI decodes an RFC 2397 data URI. glTF embeds buffers and
// images base64-encoded; the plain percent-encoded form is also accepted.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri: no comma separator")
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 data uri: %w", err)
		}
		return data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data uri: %w", err)
	}
	return []byte(unescaped), nil
}

// ResolveResources fills in the Data of every buffer and image in the
// document. Buffers already backed by a GLB BIN chunk are left alone.
// Images referencing a bufferView are sliced out of their buffer, so
// buffers resolve first.
func (d *Document) ResolveResources(r *Resolver) error {
	for i := range d.Buffers {
		buf := &d.Buffers[i]
		if buf.Data != nil {
			continue
		}
		if buf.URI == "" {
			return fmt.Errorf("%w: buffer %d", ErrMissingBufferData, i)
		}
		data, err := r.Resolve(buf.URI)
		if err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
		if buf.ByteLength < 0 || len(data) < buf.ByteLength {
			return fmt.Errorf("%w: buffer %d declares %d bytes, resolved %d",
				ErrShortBufferData, i, buf.ByteLength, len(data))
		}
		buf.Data = data[:buf.ByteLength]
	}

	for i := range d.Images {
		img := &d.Images[i]
		if img.Data != nil {
			continue
		}
		switch {
		case img.URI != "":
			data, err := r.Resolve(img.URI)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			img.Data = data
		case img.BufferView != nil:
			data, err := d.bufferViewBytes(*img.BufferView)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			img.Data = data
		}
	}
	return nil
}

// bufferViewBytes returns the raw window of a bufferView.
func (d *Document) bufferViewBytes(index int) ([]byte, error) {
	if index < 0 || index >= len(d.BufferViews) {
		return nil, fmt.Errorf("bufferView %d out of range", index)
	}
	view := d.BufferViews[index]
	if view.Buffer < 0 || view.Buffer >= len(d.Buffers) {
		return nil, fmt.Errorf("bufferView %d references buffer %d of %d",
			index, view.Buffer, len(d.Buffers))
	}
	buf := d.Buffers[view.Buffer]
	if buf.Data == nil {
		return nil, fmt.Errorf("bufferView %d: buffer %d has no resolved data", index, view.Buffer)
	}
	if view.ByteOffset < 0 || view.ByteLength < 0 ||
		view.ByteOffset+view.ByteLength > len(buf.Data) {
		return nil, fmt.Errorf("bufferView %d spans [%d, %d) of %d-byte buffer",
			index, view.ByteOffset, view.ByteOffset+view.ByteLength, len(buf.Data))
	}
	return buf.Data[view.ByteOffset : view.ByteOffset+view.ByteLength], nil
}
