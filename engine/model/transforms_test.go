package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aurora/engine/importer"
	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/renderer"
)

func hierarchyDocument() *importer.Document {
	return &importer.Document{
		DefaultScene: 0,
		Scenes:       []importer.Scene{{Name: "main", Nodes: []int{0}}},
		Nodes: []importer.Node{
			{
				Name:        "root",
				Children:    []int{1},
				Translation: &[3]float32{1, 0, 0},
				Mesh:        -1, Skin: -1, Camera: -1,
			},
			{
				Name:        "child",
				Translation: &[3]float32{0, 1, 0},
				Mesh:        0, Skin: -1, Camera: -1,
			},
		},
		Meshes: []importer.Mesh{{
			Name: "box",
			Primitives: []importer.Primitive{{
				Positions: [][3]float32{{-1, -1, -1}, {1, 1, 1}},
				Indices:   []uint32{0, 1},
				Material:  -1,
				HasBounds: true,
				BoundsMin: [3]float32{-1, -1, -1},
				BoundsMax: [3]float32{1, 1, 1},
			}},
		}},
	}
}

func buildTestModel(t *testing.T, doc *importer.Document) *Model {
	t.Helper()
	m, err := NewFromDocument(renderer.NewNullDevice(), doc, CreateInfo{SceneIndex: -1})
	require.NoError(t, err)
	return m
}

func translation(m math.Mat4) math.Vec3 {
	return math.NewVec3(m.Data[12], m.Data[13], m.Data[14])
}

func TestComputeTransformsPropagation(t *testing.T) {
	m := buildTestModel(t, hierarchyDocument())

	var tr ModelTransforms
	m.ComputeTransforms(&tr, math.NewMat4Identity(), -1, 0)

	require.Len(t, tr.NodeGlobalMatrices, 2)
	assert.True(t, translation(tr.NodeGlobalMatrices[0]).Compare(math.NewVec3(1, 0, 0), 1e-6))
	assert.True(t, translation(tr.NodeGlobalMatrices[1]).Compare(math.NewVec3(1, 1, 0), 1e-6))
}

func TestComputeTransformsRootTransform(t *testing.T) {
	m := buildTestModel(t, hierarchyDocument())

	var tr ModelTransforms
	root := math.NewMat4Translation(math.NewVec3(5, 0, 0))
	m.ComputeTransforms(&tr, root, -1, 0)

	assert.True(t, translation(tr.NodeGlobalMatrices[0]).Compare(math.NewVec3(6, 0, 0), 1e-6))
	assert.True(t, translation(tr.NodeGlobalMatrices[1]).Compare(math.NewVec3(6, 1, 0), 1e-6))
}

func TestComputeTransformsReusesAllocation(t *testing.T) {
	m := buildTestModel(t, hierarchyDocument())

	var tr ModelTransforms
	m.ComputeTransforms(&tr, math.NewMat4Identity(), -1, 0)
	first := &tr.NodeGlobalMatrices[0]
	m.ComputeTransforms(&tr, math.NewMat4Identity(), -1, 0)

	assert.Same(t, first, &tr.NodeGlobalMatrices[0])
	assert.True(t, m.CompatibleWithTransforms(&tr))
}

func TestComputeBoundingBox(t *testing.T) {
	m := buildTestModel(t, hierarchyDocument())

	var tr ModelTransforms
	m.ComputeTransforms(&tr, math.NewMat4Identity(), -1, 0)

	bb, ok := m.ComputeBoundingBox(&tr)
	require.True(t, ok)
	// the mesh sits on the child node at (1, 1, 0)
	assert.True(t, bb.Min.Compare(math.NewVec3(0, 0, -1), 1e-6))
	assert.True(t, bb.Max.Compare(math.NewVec3(2, 2, 1), 1e-6))
}

func TestComputeBoundingBoxPanicsOnForeignTransforms(t *testing.T) {
	m := buildTestModel(t, hierarchyDocument())

	var tr ModelTransforms
	assert.Panics(t, func() {
		m.ComputeBoundingBox(&tr)
	})
}

func skinnedDocument() *importer.Document {
	return &importer.Document{
		DefaultScene: 0,
		Scenes:       []importer.Scene{{Nodes: []int{0}}},
		Nodes: []importer.Node{
			{
				Name:     "skinned",
				Children: []int{1},
				Mesh:     0, Skin: 0, Camera: -1,
			},
			{
				Name:        "joint",
				Translation: &[3]float32{0, 2, 0},
				Mesh:        -1, Skin: -1, Camera: -1,
			},
		},
		Meshes: []importer.Mesh{{
			Name: "patch",
			Primitives: []importer.Primitive{{
				Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}},
				Joints0:   [][4]uint16{{0, 0, 0, 0}, {0, 0, 0, 0}},
				Weights0:  [][4]float32{{1, 0, 0, 0}, {1, 0, 0, 0}},
				Indices:   []uint32{0, 1},
				Material:  -1,
			}},
		}},
		Skins: []importer.Skin{{
			Name:   "skin",
			Joints: []int{1},
			InverseBindMatrices: [][16]float32{{
				1, 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, -2, 0, 1,
			}},
		}},
		// a rest animation with no channels keeps the static factors
		Animations: []importer.Animation{{Name: "rest"}},
	}
}

func TestSkinnedJointMatrices(t *testing.T) {
	m := buildTestModel(t, skinnedDocument())
	require.Len(t, m.Skins, 1)
	assert.Equal(t, 0, m.Nodes[0].SkinTransformsIndex)

	var tr ModelTransforms
	m.ComputeTransforms(&tr, math.NewMat4Identity(), 0, 0)

	require.Len(t, tr.Skins, 1)
	require.Len(t, tr.Skins[0].JointMatrices, 1)
	// joint global is T(0,2,0), the inverse bind matrix undoes it
	joint := tr.Skins[0].JointMatrices[0]
	assert.True(t, joint.Compare(math.NewMat4Identity(), 1e-5))
}

func TestStaticPoseCarriesNoSkinData(t *testing.T) {
	m := buildTestModel(t, skinnedDocument())

	var tr ModelTransforms
	m.ComputeTransforms(&tr, math.NewMat4Identity(), -1, 0)
	assert.Empty(t, tr.Skins)

	// an animated pass fills the skins in, a following static pass
	// clears them again
	m.ComputeTransforms(&tr, math.NewMat4Identity(), 0, 0)
	require.Len(t, tr.Skins, 1)
	m.ComputeTransforms(&tr, math.NewMat4Identity(), -1, 0)
	assert.Empty(t, tr.Skins)
}

func TestMeshlessSkinNodeProducesNoJoints(t *testing.T) {
	doc := skinnedDocument()
	doc.Nodes[0].Mesh = -1
	m := buildTestModel(t, doc)
	assert.Equal(t, -1, m.Nodes[0].SkinTransformsIndex)

	var tr ModelTransforms
	m.ComputeTransforms(&tr, math.NewMat4Identity(), 0, 0)
	assert.Empty(t, tr.Skins)
}

func TestSkinJointMatrixMismatchFails(t *testing.T) {
	doc := &importer.Document{
		Nodes: []importer.Node{{Mesh: -1, Skin: -1, Camera: -1}},
		Skins: []importer.Skin{{
			Joints:              []int{0, 0},
			InverseBindMatrices: [][16]float32{{}},
		}},
	}
	_, err := NewFromDocument(renderer.NewNullDevice(), doc, CreateInfo{SceneIndex: -1})
	assert.Error(t, err)
}
