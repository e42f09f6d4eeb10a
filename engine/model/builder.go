package model

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/importer"
	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/renderer"
)

/**
 * @brief Builds a model from an imported document. GPU objects are
 * created on the device immediately; pixel and vertex data is parked
 * for the next PrepareGPUResources call.
 */
func NewFromDocument(device renderer.Device, doc *importer.Document, ci CreateInfo) (*Model, error) {
	m := &Model{
		cache:   ci.Cache,
		manager: ci.Manager,
	}

	m.buildNodes(doc, ci.SceneIndex)
	m.buildMaterials(doc, ci)
	if err := m.buildSamplers(device, doc); err != nil {
		return nil, err
	}
	if err := m.buildTextures(device, doc, ci); err != nil {
		return nil, err
	}
	m.applyTextureTransforms()
	if err := m.buildGeometry(device, doc); err != nil {
		return nil, err
	}
	if err := m.buildSkins(doc); err != nil {
		return nil, err
	}
	m.buildCameras(doc)
	m.buildAnimations(doc)
	return m, nil
}

func (m *Model) buildNodes(doc *importer.Document, sceneIndex int) {
	m.Nodes = make([]Node, len(doc.Nodes))
	skinCounter := 0
	for i, src := range doc.Nodes {
		n := Node{
			Index:               i,
			Name:                src.Name,
			Children:            src.Children,
			MeshIndex:           src.Mesh,
			CameraIndex:         src.Camera,
			SkinIndex:           src.Skin,
			SkinTransformsIndex: -1,
		}
		if src.Translation != nil {
			n.Translation = &math.Vec3{X: src.Translation[0], Y: src.Translation[1], Z: src.Translation[2]}
		}
		if src.Rotation != nil {
			n.Rotation = &math.Quaternion{X: src.Rotation[0], Y: src.Rotation[1], Z: src.Rotation[2], W: src.Rotation[3]}
		}
		if src.Scale != nil {
			n.Scale = &math.Vec3{X: src.Scale[0], Y: src.Scale[1], Z: src.Scale[2]}
		}
		if src.Matrix != nil {
			mat := &math.Mat4{}
			copy(mat.Data[:], src.Matrix[:])
			n.Matrix = mat
		}
		if n.SkinIndex >= 0 && n.MeshIndex >= 0 {
			n.SkinTransformsIndex = skinCounter
			skinCounter++
		}
		m.Nodes[i] = n
	}

	switch {
	case len(doc.Scenes) == 0:
		m.RootNodes = rootCandidates(doc)
	default:
		idx := sceneIndex
		if idx < 0 {
			idx = doc.DefaultScene
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(doc.Scenes) {
			core.LogWarn("scene %d does not exist, using the default scene", sceneIndex)
			idx = doc.DefaultScene
			if idx < 0 || idx >= len(doc.Scenes) {
				idx = 0
			}
		}
		m.RootNodes = doc.Scenes[idx].Nodes
		m.SceneName = doc.Scenes[idx].Name
	}
}

// rootCandidates returns the nodes that are not a child of any other
// node, for files that declare no scene.
func rootCandidates(doc *importer.Document) []int {
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// buildMaterials converts the file's materials and appends a default
// material used by primitives without one.
func (m *Model) buildMaterials(doc *importer.Document, ci CreateInfo) {
	m.Materials = make([]Material, 0, len(doc.Materials)+1)
	for _, src := range doc.Materials {
		m.Materials = append(m.Materials, buildMaterial(src))
	}
	m.Materials = append(m.Materials, newDefaultMaterial())

	if ci.MaterialLoadCallback != nil {
		for i := range m.Materials {
			ci.MaterialLoadCallback(&m.Materials[i])
		}
	}
}

// buildSamplers creates one device sampler per file sampler plus the
// trailing default sampler used by textures without one.
func (m *Model) buildSamplers(device renderer.Device, doc *importer.Document) error {
	for _, src := range doc.Samplers {
		sampler, err := device.CreateSampler(samplerDesc(src))
		if err != nil {
			return err
		}
		m.Samplers = append(m.Samplers, sampler)
	}
	def, err := device.CreateSampler(renderer.SamplerLinearWrap())
	if err != nil {
		return err
	}
	m.Samplers = append(m.Samplers, def)
	return nil
}

func samplerDesc(src importer.Sampler) renderer.SamplerDesc {
	desc := renderer.SamplerLinearWrap()
	if src.MagFilter == importer.FilterModeNearest {
		desc.MagFilter = renderer.FilterNearest
	}
	if src.MinFilter == importer.FilterModeNearest {
		desc.MinFilter = renderer.FilterNearest
		desc.MipFilter = renderer.FilterNearest
	}
	desc.AddressU = addressMode(src.WrapS)
	desc.AddressV = addressMode(src.WrapT)
	return desc
}

func addressMode(w importer.WrapMode) renderer.AddressMode {
	switch w {
	case importer.WrapModeClampToEdge:
		return renderer.AddressClamp
	case importer.WrapModeMirroredRepeat:
		return renderer.AddressMirror
	default:
		return renderer.AddressWrap
	}
}

func (m *Model) buildTextures(device renderer.Device, doc *importer.Document, ci CreateInfo) error {
	for i, src := range doc.Textures {
		sampler := m.Samplers[len(m.Samplers)-1]
		if src.Sampler >= 0 && src.Sampler < len(m.Samplers)-1 {
			sampler = m.Samplers[src.Sampler]
		}
		cutoff := textureAlphaCutoff(m.Materials, i)
		slot, err := m.addTexture(device, doc, src, sampler, cutoff, ci)
		if err != nil {
			return err
		}
		m.Textures = append(m.Textures, slot)
	}
	return nil
}

// applyTextureTransforms copies the atlas region transform of every
// suballocated texture into the materials referencing it.
func (m *Model) applyTextureTransforms() {
	for i := range m.Materials {
		mat := &m.Materials[i]
		for a := range mat.Textures {
			idx := mat.Textures[a].Index
			if idx < 0 || idx >= len(m.Textures) {
				continue
			}
			mat.Textures[a].UVScaleBias = m.Textures[idx].UVScaleBias()
		}
	}
}

func (m *Model) buildGeometry(device renderer.Device, doc *importer.Document) error {
	hasSkin := false
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if len(prim.Joints0) > 0 {
				hasSkin = true
			}
		}
	}

	var basic, skin, indices bytes.Buffer
	vertexCount := uint32(0)
	indexCount := uint32(0)
	defaultMaterial := len(m.Materials) - 1

	for _, srcMesh := range doc.Meshes {
		mesh := Mesh{Name: srcMesh.Name}
		for _, src := range srcMesh.Primitives {
			prim := Primitive{
				FirstIndex:    indexCount,
				VertexCount:   uint32(src.VertexCount()),
				MaterialIndex: defaultMaterial,
			}
			if src.Material >= 0 && src.Material < defaultMaterial {
				prim.MaterialIndex = src.Material
			}
			if src.HasBounds {
				prim.HasBB = true
				prim.BB = math.Extents3D{
					Min: math.Vec3{X: src.BoundsMin[0], Y: src.BoundsMin[1], Z: src.BoundsMin[2]},
					Max: math.Vec3{X: src.BoundsMax[0], Y: src.BoundsMax[1], Z: src.BoundsMax[2]},
				}
			}

			if err := writeVertices(&basic, &skin, &src, hasSkin); err != nil {
				return err
			}
			for _, idx := range src.Indices {
				if err := binary.Write(&indices, binary.LittleEndian, idx+vertexCount); err != nil {
					return err
				}
			}
			prim.IndexCount = uint32(len(src.Indices))
			indexCount += prim.IndexCount
			vertexCount += prim.VertexCount

			if prim.HasBB {
				if mesh.HasBB {
					mesh.BB = mesh.BB.Union(prim.BB)
				} else {
					mesh.BB = prim.BB
					mesh.HasBB = true
				}
			}
			mesh.Primitives = append(mesh.Primitives, prim)
		}
		m.Meshes = append(m.Meshes, mesh)
	}

	if err := m.initBuffer(device, BufferBasicVertices, "basic vertex data", basic.Bytes(), renderer.BufferUsageVertex); err != nil {
		return err
	}
	if hasSkin {
		if err := m.initBuffer(device, BufferSkinVertices, "skin vertex data", skin.Bytes(), renderer.BufferUsageVertex); err != nil {
			return err
		}
	}
	return m.initBuffer(device, BufferIndices, "index data", indices.Bytes(), renderer.BufferUsageIndex)
}

// writeVertices appends the interleaved vertex streams of one
// primitive. Missing attributes are written as zeros so the streams
// stay parallel.
func writeVertices(basic, skin *bytes.Buffer, src *importer.Primitive, hasSkin bool) error {
	for v := 0; v < src.VertexCount(); v++ {
		var vertex [10]float32
		copy(vertex[0:3], src.Positions[v][:])
		if v < len(src.Normals) {
			copy(vertex[3:6], src.Normals[v][:])
		}
		if v < len(src.TexCoords0) {
			copy(vertex[6:8], src.TexCoords0[v][:])
		}
		if v < len(src.TexCoords1) {
			copy(vertex[8:10], src.TexCoords1[v][:])
		}
		if err := binary.Write(basic, binary.LittleEndian, vertex); err != nil {
			return err
		}

		if !hasSkin {
			continue
		}
		var skinVertex [8]float32
		if v < len(src.Joints0) {
			for c := 0; c < 4; c++ {
				skinVertex[c] = float32(src.Joints0[v][c])
			}
		}
		if v < len(src.Weights0) {
			copy(skinVertex[4:8], src.Weights0[v][:])
		}
		if err := binary.Write(skin, binary.LittleEndian, skinVertex); err != nil {
			return err
		}
	}
	return nil
}

// initBuffer places data either in a shared pool range or a dedicated
// device buffer, parking the bytes for PrepareGPUResources.
func (m *Model) initBuffer(device renderer.Device, slot int, name string, data []byte, usage renderer.BufferUsage) error {
	if len(data) == 0 {
		return nil
	}
	b := &m.Buffers[slot]
	b.Usage = usage
	b.Size = uint64(len(data))

	if m.manager != nil {
		if sub := m.manager.AllocateBufferSpace(b.Size); sub != nil {
			b.Suballocation = sub
			sub.Data().Attach(data)
			return nil
		}
	}

	buf, err := device.CreateBuffer(renderer.BufferDesc{
		Name:  core.NewResourceName(name),
		Size:  b.Size,
		Usage: usage,
	})
	if err != nil {
		return err
	}
	b.Buffer = buf
	b.pending.Attach(data)
	return nil
}

func (m *Model) buildSkins(doc *importer.Document) error {
	for _, src := range doc.Skins {
		matrices := make([]math.Mat4, len(src.InverseBindMatrices))
		for i, ibm := range src.InverseBindMatrices {
			copy(matrices[i].Data[:], ibm[:])
		}
		skin, err := newSkin(src.Name, src.Joints, matrices)
		if err != nil {
			return err
		}
		m.Skins = append(m.Skins, *skin)
	}

	for i := range m.Nodes {
		if idx := m.Nodes[i].SkinIndex; idx >= 0 && idx >= len(m.Skins) {
			return fmt.Errorf("node %d references skin %d of %d", i, idx, len(m.Skins))
		}
	}
	return nil
}

func (m *Model) buildCameras(doc *importer.Document) {
	for _, src := range doc.Cameras {
		m.Cameras = append(m.Cameras, Camera{
			Name:        src.Name,
			Type:        src.Type,
			AspectRatio: src.AspectRatio,
			YFov:        src.YFov,
			XMag:        src.XMag,
			YMag:        src.YMag,
			ZNear:       src.ZNear,
			ZFar:        src.ZFar,
		})
	}
}

func (m *Model) buildAnimations(doc *importer.Document) {
	for _, src := range doc.Animations {
		anim := Animation{
			Name:  src.Name,
			Start: math.K_INFINITY,
			End:   -math.K_INFINITY,
		}
		for _, s := range src.Samplers {
			sampler := AnimationSampler{
				Inputs:  s.Inputs,
				Outputs: s.Outputs,
			}
			switch s.Interpolation {
			case importer.InterpolationStep:
				sampler.Interpolation = InterpolationStep
			case importer.InterpolationCubicSpline:
				sampler.Interpolation = InterpolationCubicSpline
			default:
				sampler.Interpolation = InterpolationLinear
			}
			anim.Samplers = append(anim.Samplers, sampler)

			for _, t := range s.Inputs {
				anim.Start = math.Min(anim.Start, t)
				anim.End = math.Max(anim.End, t)
			}
		}
		for _, c := range src.Channels {
			ch := AnimationChannel{SamplerIndex: c.Sampler, NodeIndex: c.Node}
			switch c.Path {
			case importer.PathRotation:
				ch.Path = AnimationPathRotation
			case importer.PathScale:
				ch.Path = AnimationPathScale
			case importer.PathWeights:
				ch.Path = AnimationPathWeights
			default:
				ch.Path = AnimationPathTranslation
			}
			anim.Channels = append(anim.Channels, ch)
		}
		if anim.Start > anim.End {
			anim.Start, anim.End = 0, 0
		}
		m.Animations = append(m.Animations, anim)
	}
}
