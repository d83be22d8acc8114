package gltf

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks cross-references between document sections and returns
// every problem found, not just the first. A nil result means the index
// structure is sound; it says nothing about resolved payloads.
func (d *Document) Validate() error {
	var errs error

	for i, view := range d.BufferViews {
		if view.Buffer < 0 || view.Buffer >= len(d.Buffers) {
			errs = multierr.Append(errs, fmt.Errorf(
				"bufferView %d: buffer %d out of range (%d buffers)", i, view.Buffer, len(d.Buffers)))
			continue
		}
		buf := d.Buffers[view.Buffer]
		if view.ByteOffset < 0 || view.ByteLength <= 0 ||
			view.ByteOffset+view.ByteLength > buf.ByteLength {
			errs = multierr.Append(errs, fmt.Errorf(
				"bufferView %d: span [%d, %d) exceeds buffer %d length %d",
				i, view.ByteOffset, view.ByteOffset+view.ByteLength, view.Buffer, buf.ByteLength))
		}
	}

	for i, acc := range d.Accessors {
		componentSize := acc.ComponentType.Size()
		components := acc.Type.Components()
		if componentSize == 0 {
			errs = multierr.Append(errs, fmt.Errorf(
				"accessor %d: unknown componentType %d", i, acc.ComponentType))
		}
		if components == 0 {
			errs = multierr.Append(errs, fmt.Errorf(
				"accessor %d: unknown type %q", i, acc.Type))
		}
		if acc.Count < 0 {
			errs = multierr.Append(errs, fmt.Errorf(
				"accessor %d: negative count %d", i, acc.Count))
		}
		if acc.BufferView == nil {
			continue
		}
		if *acc.BufferView < 0 || *acc.BufferView >= len(d.BufferViews) {
			errs = multierr.Append(errs, fmt.Errorf(
				"accessor %d: bufferView %d out of range (%d views)",
				i, *acc.BufferView, len(d.BufferViews)))
			continue
		}
		if componentSize == 0 || components == 0 || acc.Count <= 0 {
			continue
		}
		view := d.BufferViews[*acc.BufferView]
		elementSize := componentSize * components
		stride := view.ByteStride
		if stride == 0 {
			stride = elementSize
		}
		need := acc.ByteOffset + (acc.Count-1)*stride + elementSize
		if need > view.ByteLength {
			errs = multierr.Append(errs, fmt.Errorf(
				"accessor %d: needs %d bytes, bufferView %d has %d",
				i, need, *acc.BufferView, view.ByteLength))
		}
	}

	for i, img := range d.Images {
		if img.URI == "" && img.BufferView == nil {
			errs = multierr.Append(errs, fmt.Errorf(
				"image %d: has neither uri nor bufferView", i))
		}
		if img.BufferView != nil && (*img.BufferView < 0 || *img.BufferView >= len(d.BufferViews)) {
			errs = multierr.Append(errs, fmt.Errorf(
				"image %d: bufferView %d out of range (%d views)", i, *img.BufferView, len(d.BufferViews)))
		}
	}

	for i, tex := range d.Textures {
		if tex.Source != nil && (*tex.Source < 0 || *tex.Source >= len(d.Images)) {
			errs = multierr.Append(errs, fmt.Errorf(
				"texture %d: source %d out of range (%d images)", i, *tex.Source, len(d.Images)))
		}
		if tex.Sampler != nil && (*tex.Sampler < 0 || *tex.Sampler >= len(d.Samplers)) {
			errs = multierr.Append(errs, fmt.Errorf(
				"texture %d: sampler %d out of range (%d samplers)", i, *tex.Sampler, len(d.Samplers)))
		}
	}

	for mi, mesh := range d.Meshes {
		for pi, prim := range mesh.Primitives {
			for name, acc := range prim.Attributes {
				if acc < 0 || acc >= len(d.Accessors) {
					errs = multierr.Append(errs, fmt.Errorf(
						"mesh %d primitive %d: attribute %s references accessor %d of %d",
						mi, pi, name, acc, len(d.Accessors)))
				}
			}
			if prim.Indices == nil {
				continue
			}
			if *prim.Indices < 0 || *prim.Indices >= len(d.Accessors) {
				errs = multierr.Append(errs, fmt.Errorf(
					"mesh %d primitive %d: indices reference accessor %d of %d",
					mi, pi, *prim.Indices, len(d.Accessors)))
			} else if d.Accessors[*prim.Indices].Type != TypeScalar {
				errs = multierr.Append(errs, fmt.Errorf(
					"mesh %d primitive %d: index accessor %d is %q, want SCALAR",
					mi, pi, *prim.Indices, d.Accessors[*prim.Indices].Type))
			}
		}
	}

	for ni, node := range d.Nodes {
		if node.Mesh != nil && (*node.Mesh < 0 || *node.Mesh >= len(d.Meshes)) {
			errs = multierr.Append(errs, fmt.Errorf(
				"node %d: mesh %d out of range (%d meshes)", ni, *node.Mesh, len(d.Meshes)))
		}
		for _, child := range node.Children {
			if child < 0 || child >= len(d.Nodes) {
				errs = multierr.Append(errs, fmt.Errorf(
					"node %d: child %d out of range (%d nodes)", ni, child, len(d.Nodes)))
			}
		}
	}

	for si, scene := range d.Scenes {
		for _, n := range scene.Nodes {
			if n < 0 || n >= len(d.Nodes) {
				errs = multierr.Append(errs, fmt.Errorf(
					"scene %d: node %d out of range (%d nodes)", si, n, len(d.Nodes)))
			}
		}
	}
	if d.Scene != nil && (*d.Scene < 0 || *d.Scene >= len(d.Scenes)) {
		errs = multierr.Append(errs, fmt.Errorf(
			"scene index %d out of range (%d scenes)", *d.Scene, len(d.Scenes)))
	}

	return errs
}
