package model

import (
	"fmt"

	"github.com/spaghettifunk/aurora/engine/math"
)

/**
 * @brief A scene graph node in the flattened node arena. Children are
 * arena indices, so the whole hierarchy is stored without pointers.
 */
type Node struct {
	/** @brief Index of this node in the arena. */
	Index int
	Name  string
	/** @brief Arena indices of the child nodes. */
	Children []int

	Translation *math.Vec3
	Rotation    *math.Quaternion
	Scale       *math.Vec3
	Matrix      *math.Mat4

	/** @brief Index into Model.Meshes, -1 when the node has no mesh. */
	MeshIndex int
	/** @brief Index into Model.Cameras, -1 when the node has no camera. */
	CameraIndex int
	/** @brief Index into Model.Skins, -1 when the node is not skinned. */
	SkinIndex int
	/** @brief Index into ModelTransforms.Skins, -1 when the node has no skinned mesh. */
	SkinTransformsIndex int
}

/**
 * @brief Composes the node's local transform from whichever factors
 * are present. Factor order is scale, rotation, translation, then the
 * explicit matrix.
 */
func (n *Node) localMatrix() math.Mat4 {
	local := math.NewMat4Identity()
	if n.Scale != nil {
		local = local.Mul(math.NewMat4Scale(*n.Scale))
	}
	if n.Rotation != nil {
		local = local.Mul(n.Rotation.ToMat4())
	}
	if n.Translation != nil {
		local = local.Mul(math.NewMat4Translation(*n.Translation))
	}
	if n.Matrix != nil {
		local = local.Mul(*n.Matrix)
	}
	return local
}

/**
 * @brief A contiguous range of vertices and indices inside the model's
 * shared buffers, drawn with one material.
 */
type Primitive struct {
	FirstIndex  uint32
	IndexCount  uint32
	VertexCount uint32
	/** @brief Index into Model.Materials. */
	MaterialIndex int
	/** @brief Object space bounds of the primitive geometry. */
	BB    math.Extents3D
	HasBB bool
}

type Mesh struct {
	Name       string
	Primitives []Primitive
	/** @brief Union of the primitive bounds. */
	BB    math.Extents3D
	HasBB bool
}

type Skin struct {
	Name string
	/** @brief Arena indices of the joint nodes, in joint order. */
	Joints []int
	/** @brief One inverse bind matrix per joint. */
	InverseBindMatrices []math.Mat4
}

func newSkin(name string, joints []int, inverseBindMatrices []math.Mat4) (*Skin, error) {
	if len(inverseBindMatrices) > 0 && len(inverseBindMatrices) != len(joints) {
		return nil, fmt.Errorf("skin %q has %d joints but %d inverse bind matrices", name, len(joints), len(inverseBindMatrices))
	}
	return &Skin{Name: name, Joints: joints, InverseBindMatrices: inverseBindMatrices}, nil
}

type Camera struct {
	Name string
	/** @brief "perspective" or "orthographic". */
	Type        string
	AspectRatio float32
	YFov        float32
	XMag        float32
	YMag        float32
	ZNear       float32
	ZFar        float32
}
