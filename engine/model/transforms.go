package model

import (
	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/math"
)

/**
 * @brief Joint matrices of one skinned node, in the skin's joint
 * order.
 */
type SkinTransforms struct {
	JointMatrices []math.Mat4
}

type nodeAnimation struct {
	translation math.Vec3
	rotation    math.Quaternion
	scale       math.Vec3
}

/**
 * @brief Evaluated transforms of a model. A transforms instance is
 * reused between frames; ComputeTransforms sizes it to its model on
 * first use. Separate instances allow many animated copies of one
 * shared model.
 */
type ModelTransforms struct {
	/** @brief Local transform of every node in the arena. */
	NodeLocalMatrices []math.Mat4
	/** @brief World transform of every node in the arena. */
	NodeGlobalMatrices []math.Mat4
	/**
	 * @brief Joint matrices of every skinned mesh node. Populated only
	 * by an animated pass; a static pass leaves the list empty.
	 */
	Skins []SkinTransforms

	nodeAnimations []nodeAnimation
	animated       bool
}

/**
 * @brief Reports whether t was sized for this model.
 */
func (m *Model) CompatibleWithTransforms(t *ModelTransforms) bool {
	if len(t.NodeLocalMatrices) != len(m.Nodes) || len(t.NodeGlobalMatrices) != len(m.Nodes) {
		return false
	}
	// An empty skin list is always compatible, only an animated pass
	// fills it in.
	if len(t.Skins) == 0 {
		return true
	}
	skinned := 0
	for i := range m.Nodes {
		if m.Nodes[i].SkinIndex >= 0 && m.Nodes[i].MeshIndex >= 0 {
			if skinned >= len(t.Skins) {
				return false
			}
			joints := len(m.Skins[m.Nodes[i].SkinIndex].Joints)
			if len(t.Skins[skinned].JointMatrices) != joints {
				return false
			}
			skinned++
		}
	}
	return skinned == len(t.Skins)
}

func (m *Model) initTransforms(t *ModelTransforms) {
	if m.CompatibleWithTransforms(t) {
		return
	}
	t.NodeLocalMatrices = make([]math.Mat4, len(m.Nodes))
	t.NodeGlobalMatrices = make([]math.Mat4, len(m.Nodes))
	t.nodeAnimations = make([]nodeAnimation, len(m.Nodes))
	t.Skins = t.Skins[:0]
}

// sizeSkinTransforms allocates one joint matrix list per skinned mesh
// node. A no-op when a previous animated pass already sized the list.
func (m *Model) sizeSkinTransforms(t *ModelTransforms) {
	if len(t.Skins) > 0 {
		return
	}
	for i := range m.Nodes {
		if idx := m.Nodes[i].SkinIndex; idx >= 0 && m.Nodes[i].MeshIndex >= 0 {
			t.Skins = append(t.Skins, SkinTransforms{
				JointMatrices: make([]math.Mat4, len(m.Skins[idx].Joints)),
			})
		}
	}
}

/**
 * @brief Evaluates the transforms of the whole hierarchy. When
 * animationIndex is non-negative the named animation is sampled at the
 * given time first; otherwise the nodes' static factors are used and
 * no joint matrices are produced. rootTransform is applied on top of
 * every root node.
 */
func (m *Model) ComputeTransforms(t *ModelTransforms, rootTransform math.Mat4, animationIndex int, time float32) {
	m.initTransforms(t)

	t.animated = false
	if animationIndex >= 0 {
		if animationIndex < len(m.Animations) {
			m.updateAnimation(animationIndex, time, t)
		} else {
			core.LogWarn("animation index %d is out of range [0, %d), using the static pose", animationIndex, len(m.Animations))
		}
	}

	for _, root := range m.RootNodes {
		m.computeGlobalTransforms(root, rootTransform, t)
	}

	if !t.animated {
		t.Skins = t.Skins[:0]
		return
	}

	m.sizeSkinTransforms(t)
	for i := range m.Nodes {
		n := &m.Nodes[i]
		if n.SkinIndex < 0 || n.MeshIndex < 0 {
			continue
		}
		skin := &m.Skins[n.SkinIndex]
		st := &t.Skins[n.SkinTransformsIndex]
		inverseGlobal := t.NodeGlobalMatrices[i].Inverse()
		for j, joint := range skin.Joints {
			jointMatrix := t.NodeGlobalMatrices[joint].Mul(inverseGlobal)
			if j < len(skin.InverseBindMatrices) {
				jointMatrix = skin.InverseBindMatrices[j].Mul(jointMatrix)
			}
			st.JointMatrices[j] = jointMatrix
		}
	}
}

func (m *Model) computeGlobalTransforms(nodeIndex int, parent math.Mat4, t *ModelTransforms) {
	n := &m.Nodes[nodeIndex]

	var local math.Mat4
	if t.animated {
		local = t.animatedLocal(n)
	} else {
		local = n.localMatrix()
	}
	t.NodeLocalMatrices[nodeIndex] = local
	t.NodeGlobalMatrices[nodeIndex] = local.Mul(parent)

	for _, child := range n.Children {
		m.computeGlobalTransforms(child, t.NodeGlobalMatrices[nodeIndex], t)
	}
}

// animatedLocal composes the node's local transform from the sampled
// animation factors, with the explicit matrix applied last.
func (t *ModelTransforms) animatedLocal(n *Node) math.Mat4 {
	a := &t.nodeAnimations[n.Index]
	local := math.NewMat4Scale(a.scale).
		Mul(a.rotation.ToMat4()).
		Mul(math.NewMat4Translation(a.translation))
	if n.Matrix != nil {
		local = local.Mul(*n.Matrix)
	}
	return local
}

/**
 * @brief Computes the world space bounds of the model using the
 * evaluated transforms. Panics when t was not computed for this model.
 * The second return value is false when no mesh carries bounds.
 */
func (m *Model) ComputeBoundingBox(t *ModelTransforms) (math.Extents3D, bool) {
	if !m.CompatibleWithTransforms(t) {
		panic("transforms are not compatible with this model")
	}

	bounds := math.NewExtents3DEmpty()
	found := false
	for i := range m.Nodes {
		n := &m.Nodes[i]
		if n.MeshIndex < 0 || n.MeshIndex >= len(m.Meshes) {
			continue
		}
		mesh := &m.Meshes[n.MeshIndex]
		if !mesh.HasBB {
			continue
		}
		bounds = bounds.Union(mesh.BB.Transform(t.NodeGlobalMatrices[i]))
		found = true
	}
	return bounds, found
}
