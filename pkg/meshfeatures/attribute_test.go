package meshfeatures

import (
	"testing"

	"github.com/Faultbox/tilemesh/pkg/gltf"
)

func TestFeatureIDAttribute_Valid(t *testing.T) {
	f := newFixture()
	f.setPositionCount(6)
	f.addIDAttribute(t, 2, []uint16{4, 4, 4, 8, 8, 8})
	f.setFeatureIDs(t, featureIDJSON{FeatureCount: 2, Attribute: i64p(2)})

	attr := f.features(t).Sets()[0].Attribute()
	if attr == nil {
		t.Fatal("Attribute() = nil")
	}
	if attr.Status() != AttributeValid {
		t.Fatalf("status = %v, want Valid", attr.Status())
	}
	if attr.SetIndex() != 2 {
		t.Errorf("SetIndex() = %d, want 2", attr.SetIndex())
	}
	if attr.Count() != 6 {
		t.Errorf("Count() = %d, want 6", attr.Count())
	}

	for vertex, want := range []int64{4, 4, 4, 8, 8, 8} {
		if got := attr.FeatureIDForVertex(int64(vertex)); got != want {
			t.Errorf("FeatureIDForVertex(%d) = %d, want %d", vertex, got, want)
		}
	}
	for _, vertex := range []int64{-1, 6} {
		if got := attr.FeatureIDForVertex(vertex); got != -1 {
			t.Errorf("FeatureIDForVertex(%d) = %d, want -1", vertex, got)
		}
	}
}

func TestFeatureIDAttribute_MissingAttribute(t *testing.T) {
	f := newFixture()
	f.setPositionCount(6)
	f.setFeatureIDs(t, featureIDJSON{FeatureCount: 2, Attribute: i64p(5)})

	p := f.features(t)
	set := p.Sets()[0]

	// The declaration still classifies the set, broken or not.
	if set.Kind() != KindAttribute {
		t.Fatalf("kind = %v, want Attribute", set.Kind())
	}
	attr := set.Attribute()
	if attr.Status() != AttributeMissing {
		t.Errorf("status = %v, want MissingAttribute", attr.Status())
	}
	if got := attr.FeatureIDForVertex(0); got != -1 {
		t.Errorf("FeatureIDForVertex(0) = %d, want -1", got)
	}
	if got := p.FeatureIDFromFace(set, 0); got != -1 {
		t.Errorf("FeatureIDFromFace(0) = %d, want -1", got)
	}
	if attr.Count() != 0 {
		t.Errorf("Count() = %d, want 0", attr.Count())
	}
}

func TestFeatureIDAttribute_InvalidAccessor(t *testing.T) {
	f := newFixture()
	f.setPositionCount(6)
	f.prim.Attributes[AttributeName(0)] = 99
	f.setFeatureIDs(t, featureIDJSON{FeatureCount: 2, Attribute: i64p(0)})

	attr := f.features(t).Sets()[0].Attribute()
	if attr.Status() != AttributeInvalidAccessor {
		t.Errorf("status = %v, want InvalidAccessor", attr.Status())
	}
	if got := attr.FeatureIDForVertex(0); got != -1 {
		t.Errorf("FeatureIDForVertex(0) = %d, want -1", got)
	}
}

func TestFeatureIDAttribute_TruncatedAccessor(t *testing.T) {
	f := newFixture()
	f.setPositionCount(6)
	f.addIDAttribute(t, 0, []uint16{1, 2, 3})
	// Declare more elements than the buffer holds.
	f.doc.Accessors[f.prim.Attributes[AttributeName(0)]].Count = 50
	f.setFeatureIDs(t, featureIDJSON{FeatureCount: 3, Attribute: i64p(0)})

	attr := f.features(t).Sets()[0].Attribute()
	if attr.Status() != AttributeInvalidAccessor {
		t.Errorf("status = %v, want InvalidAccessor", attr.Status())
	}
}

func TestFeatureIDAttribute_EmptyAccessorPastView(t *testing.T) {
	f := newFixture()
	f.setPositionCount(6)
	f.addIDAttribute(t, 0, []uint16{1, 2, 3})
	// Declare no elements at an offset beyond the view.
	acc := &f.doc.Accessors[f.prim.Attributes[AttributeName(0)]]
	acc.Count = 0
	acc.ByteOffset = 100
	f.setFeatureIDs(t, featureIDJSON{FeatureCount: 3, Attribute: i64p(0)})

	p := f.features(t)
	set := p.Sets()[0]
	if got := set.Attribute().Status(); got != AttributeInvalidAccessor {
		t.Errorf("status = %v, want InvalidAccessor", got)
	}
	if got := p.FeatureIDFromFace(set, 0); got != -1 {
		t.Errorf("FeatureIDFromFace(0) = %d, want -1", got)
	}
}

func TestAttributeStatus_String(t *testing.T) {
	tests := []struct {
		status AttributeStatus
		want   string
	}{
		{AttributeValid, "Valid"},
		{AttributeMissing, "MissingAttribute"},
		{AttributeInvalidAccessor, "InvalidAccessor"},
		{AttributeStatus(42), "AttributeStatus(42)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestAttributeName(t *testing.T) {
	if got := AttributeName(0); got != "_FEATURE_ID_0" {
		t.Errorf("AttributeName(0) = %q", got)
	}
	if got := AttributeName(12); got != "_FEATURE_ID_12" {
		t.Errorf("AttributeName(12) = %q", got)
	}
	if got := texCoordName(1); got != gltf.AttributeTexCoordPrefix+"1" {
		t.Errorf("texCoordName(1) = %q", got)
	}
}
