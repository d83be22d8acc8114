package meshfeatures

import (
	"fmt"
	"strconv"

	"github.com/Faultbox/tilemesh/pkg/gltf"
)

// ExtensionName identifies the glTF extension block this package reads.
const ExtensionName = "EXT_mesh_features"

// extensionJSON mirrors the EXT_mesh_features primitive extension schema.
type extensionJSON struct {
	FeatureIDs []featureIDJSON `json:"featureIds"`
}

type featureIDJSON struct {
	FeatureCount  int64               `json:"featureCount"`
	NullFeatureID *int64              `json:"nullFeatureId,omitempty"`
	Label         string              `json:"label,omitempty"`
	Attribute     *int64              `json:"attribute,omitempty"`
	Texture       *featureTextureJSON `json:"texture,omitempty"`
	PropertyTable *int64              `json:"propertyTable,omitempty"`
}

type featureTextureJSON struct {
	Index    *int  `json:"index,omitempty"`
	TexCoord int   `json:"texCoord,omitempty"`
	Channels []int `json:"channels,omitempty"`
}

// decodeExtension pulls the EXT_mesh_features block off a primitive.
// A primitive without the extension decodes to an empty block.
func decodeExtension(prim *gltf.Primitive) (extensionJSON, error) {
	var ext extensionJSON
	if _, err := prim.Extensions.Decode(ExtensionName, &ext); err != nil {
		return extensionJSON{}, fmt.Errorf("primitive features: %w", err)
	}
	return ext, nil
}

// AttributeName returns the vertex attribute semantic for a feature ID
// attribute set index, e.g. set 1 reads _FEATURE_ID_1.
func AttributeName(setIndex int64) string {
	return "_FEATURE_ID_" + strconv.FormatInt(setIndex, 10)
}

// texCoordName returns the attribute semantic for a texcoord set index.
func texCoordName(setIndex int) string {
	return gltf.AttributeTexCoordPrefix + strconv.Itoa(setIndex)
}
