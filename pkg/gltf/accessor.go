package gltf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Accessor errors.
var (
	ErrInvalidAccessor = errors.New("invalid accessor")
)

// ComponentType identifies the storage type of accessor components.
type ComponentType uint32

// glTF component types.
const (
	ComponentByte          ComponentType = 5120
	ComponentUnsignedByte  ComponentType = 5121
	ComponentShort         ComponentType = 5122
	ComponentUnsignedShort ComponentType = 5123
	ComponentUnsignedInt   ComponentType = 5125
	ComponentFloat         ComponentType = 5126
)

// Size returns the component size in bytes, or 0 for unknown types.
func (c ComponentType) Size() int {
	switch c {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// String returns the glTF constant name for the component type.
func (c ComponentType) String() string {
	switch c {
	case ComponentByte:
		return "BYTE"
	case ComponentUnsignedByte:
		return "UNSIGNED_BYTE"
	case ComponentShort:
		return "SHORT"
	case ComponentUnsignedShort:
		return "UNSIGNED_SHORT"
	case ComponentUnsignedInt:
		return "UNSIGNED_INT"
	case ComponentFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(c))
	}
}

// AccessorType is the element shape of an accessor.
type AccessorType string

// glTF accessor element types.
const (
	TypeScalar AccessorType = "SCALAR"
	TypeVec2   AccessorType = "VEC2"
	TypeVec3   AccessorType = "VEC3"
	TypeVec4   AccessorType = "VEC4"
	TypeMat2   AccessorType = "MAT2"
	TypeMat3   AccessorType = "MAT3"
	TypeMat4   AccessorType = "MAT4"
)

// Components returns the number of components per element, or 0 for
// unknown types.
func (t AccessorType) Components() int {
	switch t {
	case TypeScalar:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	case TypeMat2:
		return 4
	case TypeMat3:
		return 9
	case TypeMat4:
		return 16
	default:
		return 0
	}
}

// AccessorView reads typed elements out of a resolved buffer.
// Element bounds were validated at construction; per-element reads only
// check the element index.
type AccessorView struct {
	data          []byte
	stride        int
	count         int
	componentType ComponentType
	components    int
	normalized    bool
}

// AccessorView builds a reader for the accessor at index. It fails if the
// accessor, its bufferView, or its buffer is out of range, if the buffer
// payload has not been resolved, or if the declared count overruns the view.
func (d *Document) AccessorView(index int) (*AccessorView, error) {
	if index < 0 || index >= len(d.Accessors) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidAccessor, index)
	}
	acc := &d.Accessors[index]

	componentSize := acc.ComponentType.Size()
	components := acc.Type.Components()
	if componentSize == 0 || components == 0 {
		return nil, fmt.Errorf("%w: accessor %d has componentType %s, type %q",
			ErrInvalidAccessor, index, acc.ComponentType, acc.Type)
	}

	if acc.BufferView == nil {
		return nil, fmt.Errorf("%w: accessor %d has no bufferView", ErrInvalidAccessor, index)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(d.BufferViews) {
		return nil, fmt.Errorf("%w: accessor %d references bufferView %d of %d",
			ErrInvalidAccessor, index, *acc.BufferView, len(d.BufferViews))
	}
	view := d.BufferViews[*acc.BufferView]

	if view.Buffer < 0 || view.Buffer >= len(d.Buffers) {
		return nil, fmt.Errorf("%w: bufferView %d references buffer %d of %d",
			ErrInvalidAccessor, *acc.BufferView, view.Buffer, len(d.Buffers))
	}
	buffer := d.Buffers[view.Buffer]
	if buffer.Data == nil {
		return nil, fmt.Errorf("%w: buffer %d has no resolved data", ErrInvalidAccessor, view.Buffer)
	}
	if view.ByteOffset < 0 || view.ByteLength < 0 ||
		view.ByteOffset+view.ByteLength > len(buffer.Data) {
		return nil, fmt.Errorf("%w: bufferView %d spans [%d, %d) of %d-byte buffer",
			ErrInvalidAccessor, *acc.BufferView, view.ByteOffset,
			view.ByteOffset+view.ByteLength, len(buffer.Data))
	}
	window := buffer.Data[view.ByteOffset : view.ByteOffset+view.ByteLength]

	elementSize := componentSize * components
	stride := view.ByteStride
	if stride == 0 {
		stride = elementSize
	}
	if stride < elementSize {
		return nil, fmt.Errorf("%w: accessor %d stride %d smaller than element size %d",
			ErrInvalidAccessor, index, stride, elementSize)
	}
	if acc.Count < 0 || acc.ByteOffset < 0 {
		return nil, fmt.Errorf("%w: accessor %d has negative count or offset", ErrInvalidAccessor, index)
	}
	last := acc.ByteOffset
	if acc.Count > 0 {
		last += (acc.Count-1)*stride + elementSize
	}
	if last > len(window) {
		return nil, fmt.Errorf("%w: accessor %d needs %d bytes, view has %d",
			ErrInvalidAccessor, index, last, len(window))
	}

	return &AccessorView{
		data:          window[acc.ByteOffset:],
		stride:        stride,
		count:         acc.Count,
		componentType: acc.ComponentType,
		components:    components,
		normalized:    acc.Normalized,
	}, nil
}

// Count returns the number of elements.
func (v *AccessorView) Count() int {
	return v.count
}

// component reads one raw component value. Every glTF component type fits
// float64 without loss.
func (v *AccessorView) component(offset int) float64 {
	switch v.componentType {
	case ComponentByte:
		return float64(int8(v.data[offset]))
	case ComponentUnsignedByte:
		return float64(v.data[offset])
	case ComponentShort:
		return float64(int16(binary.LittleEndian.Uint16(v.data[offset:])))
	case ComponentUnsignedShort:
		return float64(binary.LittleEndian.Uint16(v.data[offset:]))
	case ComponentUnsignedInt:
		return float64(binary.LittleEndian.Uint32(v.data[offset:]))
	case ComponentFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(v.data[offset:])))
	default:
		return 0
	}
}

// denormalize maps a normalized integer component to [0,1] or [-1,1].
func (v *AccessorView) denormalize(raw float64) float64 {
	if !v.normalized {
		return raw
	}
	switch v.componentType {
	case ComponentByte:
		return math.Max(raw/127, -1)
	case ComponentUnsignedByte:
		return raw / 255
	case ComponentShort:
		return math.Max(raw/32767, -1)
	case ComponentUnsignedShort:
		return raw / 65535
	default:
		return raw
	}
}

// Scalar reads element i widened to a signed 64-bit integer. Float
// components are truncated toward zero; non-finite values read as not ok.
// Normalization is ignored: callers get the stored integer.
func (v *AccessorView) Scalar(i int) (int64, bool) {
	if i < 0 || i >= v.count || v.components != 1 {
		return 0, false
	}
	raw := v.component(i * v.stride)
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, false
	}
	return int64(raw), true
}

// Float reads element i of a scalar accessor as a float, de-normalizing
// normalized integer storage.
func (v *AccessorView) Float(i int) (float64, bool) {
	if i < 0 || i >= v.count || v.components != 1 {
		return 0, false
	}
	return v.denormalize(v.component(i * v.stride)), true
}

// Vec2 reads element i of a two-component accessor, de-normalizing
// normalized integer storage.
func (v *AccessorView) Vec2(i int) (mgl32.Vec2, bool) {
	if i < 0 || i >= v.count || v.components < 2 {
		return mgl32.Vec2{}, false
	}
	base := i * v.stride
	size := v.componentType.Size()
	return mgl32.Vec2{
		float32(v.denormalize(v.component(base))),
		float32(v.denormalize(v.component(base + size))),
	}, true
}

// Vec3 reads element i of a three-component accessor, de-normalizing
// normalized integer storage.
func (v *AccessorView) Vec3(i int) (mgl32.Vec3, bool) {
	if i < 0 || i >= v.count || v.components < 3 {
		return mgl32.Vec3{}, false
	}
	base := i * v.stride
	size := v.componentType.Size()
	return mgl32.Vec3{
		float32(v.denormalize(v.component(base))),
		float32(v.denormalize(v.component(base + size))),
		float32(v.denormalize(v.component(base + 2*size))),
	}, true
}
