package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/tilemesh/pkg/gltf"
)

// WriteText prints the report in the tool's plain text layout.
func (r *DocumentReport) WriteText(w io.Writer) {
	if r.Path != "" {
		fmt.Fprintf(w, "Asset:     %s\n", r.Path)
	}
	fmt.Fprintf(w, "Version:   %s\n", r.Version)
	if r.Generator != "" {
		fmt.Fprintf(w, "Generator: %s\n", r.Generator)
	}
	fmt.Fprintf(w, "Meshes:    %d (%d primitives)\n", r.Counts.Meshes, r.Counts.Primitives)
	fmt.Fprintf(w, "Accessors: %d (%d buffer views, %d buffers)\n",
		r.Counts.Accessors, r.Counts.BufferViews, r.Counts.Buffers)
	fmt.Fprintf(w, "Textures:  %d (%d images)\n", r.Counts.Textures, r.Counts.Images)

	for i := range r.Primitives {
		fmt.Fprintln(w)
		r.Primitives[i].WriteText(w)
	}
}

// WriteJSON prints the report as JSON, indented when pretty is set.
func (r *DocumentReport) WriteJSON(w io.Writer, pretty bool) error {
	return writeJSON(w, r, pretty)
}

// WriteText prints one primitive's report in the tool's text layout.
func (r *PrimitiveReport) WriteText(w io.Writer) {
	name := ""
	if r.MeshName != "" {
		name = fmt.Sprintf(" %q", r.MeshName)
	}
	topology := "unindexed"
	if r.Indexed {
		topology = "indexed"
	}
	fmt.Fprintf(w, "mesh %d%s primitive %d: %s, %d vertices, %d faces, %s\n",
		r.Mesh, name, r.Primitive, modeName(r.Mode), r.VertexCount, r.FaceCount, topology)

	if len(r.Sets) == 0 {
		fmt.Fprintln(w, "  no feature ID sets")
		return
	}
	for _, set := range r.Sets {
		fmt.Fprintf(w, "  %s\n", describeSet(set))
	}
}

// WriteJSON prints one primitive's report as JSON.
func (r *PrimitiveReport) WriteJSON(w io.Writer, pretty bool) error {
	return writeJSON(w, r, pretty)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// describeSet formats one set as a single line:
//
//	set 0: Attribute (_FEATURE_ID_0), 3 features, status Valid
//	set 1: Texture (TEXCOORD_0, channels [0 1]), 256 features, status Valid
//	set 2: Implicit "trees", 9 features, null 8, table 0
func describeSet(set SetReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "set %d: %s", set.Index, set.Kind)

	switch {
	case set.Attribute != nil:
		fmt.Fprintf(&b, " (_FEATURE_ID_%d)", *set.Attribute)
	case set.TexCoordSet != nil:
		fmt.Fprintf(&b, " (TEXCOORD_%d, channels %v)", *set.TexCoordSet, set.Channels)
	}

	if set.Label != "" {
		fmt.Fprintf(&b, " %q", set.Label)
	}
	fmt.Fprintf(&b, ", %d features", set.FeatureCount)
	if set.NullFeatureID >= 0 {
		fmt.Fprintf(&b, ", null %d", set.NullFeatureID)
	}
	if set.PropertyTable >= 0 {
		fmt.Fprintf(&b, ", table %d", set.PropertyTable)
	}
	if set.Status != "" {
		fmt.Fprintf(&b, ", status %s", set.Status)
	}
	return b.String()
}

func modeName(mode int) string {
	switch mode {
	case gltf.ModePoints:
		return "POINTS"
	case gltf.ModeLines:
		return "LINES"
	case gltf.ModeLineLoop:
		return "LINE_LOOP"
	case gltf.ModeLineStrip:
		return "LINE_STRIP"
	case gltf.ModeTriangles:
		return "TRIANGLES"
	case gltf.ModeTriangleStrip:
		return "TRIANGLE_STRIP"
	case gltf.ModeTriangleFan:
		return "TRIANGLE_FAN"
	default:
		return fmt.Sprintf("MODE_%d", mode)
	}
}
