package gltf

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	qgltf "github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/aurora/engine/assets"
	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/importer"
	"github.com/spaghettifunk/aurora/engine/resources"
)

/**
 * @brief Options controlling the import.
 */
type ImportOptions struct {
	/**
	 * @brief When set, images already present in the cache are not
	 * decoded again.
	 */
	Cache *resources.TextureCache
}

/**
 * @brief Loads a .gltf or .glb file and converts it into the
 * parser-neutral document form.
 */
func ImportFile(path string, opts ImportOptions) (*importer.Document, error) {
	src, err := qgltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	doc := &importer.Document{
		DefaultScene:   -1,
		ExtensionsUsed: src.ExtensionsUsed,
	}
	if src.Scene != nil {
		doc.DefaultScene = *src.Scene
	}

	for _, s := range src.Scenes {
		doc.Scenes = append(doc.Scenes, importer.Scene{Name: s.Name, Nodes: s.Nodes})
	}

	for _, n := range src.Nodes {
		doc.Nodes = append(doc.Nodes, convertNode(n))
	}

	for _, m := range src.Meshes {
		mesh, err := convertMesh(src, m)
		if err != nil {
			return nil, err
		}
		doc.Meshes = append(doc.Meshes, mesh)
	}

	for _, m := range src.Materials {
		doc.Materials = append(doc.Materials, convertMaterial(m))
	}

	baseDir := filepath.Dir(path)
	for i, img := range src.Images {
		doc.Images = append(doc.Images, loadImage(src, img, baseDir, path, i, opts.Cache))
	}

	for _, s := range src.Samplers {
		doc.Samplers = append(doc.Samplers, convertSampler(s))
	}

	for _, t := range src.Textures {
		tex := importer.Texture{Source: -1, Sampler: -1}
		if t.Source != nil {
			tex.Source = *t.Source
		}
		if t.Sampler != nil {
			tex.Sampler = *t.Sampler
		}
		doc.Textures = append(doc.Textures, tex)
	}

	for _, s := range src.Skins {
		skin, err := convertSkin(src, s)
		if err != nil {
			return nil, err
		}
		doc.Skins = append(doc.Skins, skin)
	}

	for _, a := range src.Animations {
		anim, err := convertAnimation(src, a)
		if err != nil {
			return nil, err
		}
		doc.Animations = append(doc.Animations, anim)
	}

	for _, c := range src.Cameras {
		doc.Cameras = append(doc.Cameras, convertCamera(c))
	}

	return doc, nil
}

func convertNode(n *qgltf.Node) importer.Node {
	out := importer.Node{
		Name:     n.Name,
		Children: n.Children,
		Mesh:     -1,
		Skin:     -1,
		Camera:   -1,
	}
	if n.Mesh != nil {
		out.Mesh = *n.Mesh
	}
	if n.Skin != nil {
		out.Skin = *n.Skin
	}
	if n.Camera != nil {
		out.Camera = *n.Camera
	}

	identity := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if n.Matrix != identity {
		m := new([16]float32)
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		out.Matrix = m
	}
	if n.Translation != [3]float64{} {
		out.Translation = &[3]float32{float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2])}
	}
	if n.Rotation != [4]float64{0, 0, 0, 1} {
		out.Rotation = &[4]float32{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2]), float32(n.Rotation[3])}
	}
	if n.Scale != [3]float64{1, 1, 1} {
		out.Scale = &[3]float32{float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2])}
	}
	return out
}

func convertMesh(src *qgltf.Document, m *qgltf.Mesh) (importer.Mesh, error) {
	out := importer.Mesh{Name: m.Name}
	for _, p := range m.Primitives {
		prim := importer.Primitive{Material: -1, Mode: convertMode(p.Mode)}
		if p.Material != nil {
			prim.Material = *p.Material
		}

		if idx, ok := p.Attributes[qgltf.POSITION]; ok {
			pos, err := modeler.ReadPosition(src, src.Accessors[idx], nil)
			if err != nil {
				return out, fmt.Errorf("failed to read positions: %w", err)
			}
			prim.Positions = pos
			if len(pos) > 0 {
				prim.HasBounds = true
				prim.BoundsMin = pos[0]
				prim.BoundsMax = pos[0]
				for _, v := range pos[1:] {
					for c := 0; c < 3; c++ {
						if v[c] < prim.BoundsMin[c] {
							prim.BoundsMin[c] = v[c]
						}
						if v[c] > prim.BoundsMax[c] {
							prim.BoundsMax[c] = v[c]
						}
					}
				}
			}
		}
		if idx, ok := p.Attributes[qgltf.NORMAL]; ok {
			normals, err := modeler.ReadNormal(src, src.Accessors[idx], nil)
			if err != nil {
				return out, fmt.Errorf("failed to read normals: %w", err)
			}
			prim.Normals = normals
		}
		if idx, ok := p.Attributes[qgltf.TEXCOORD_0]; ok {
			uv, err := modeler.ReadTextureCoord(src, src.Accessors[idx], nil)
			if err != nil {
				return out, fmt.Errorf("failed to read texcoord 0: %w", err)
			}
			prim.TexCoords0 = uv
		}
		if idx, ok := p.Attributes[qgltf.TEXCOORD_1]; ok {
			uv, err := modeler.ReadTextureCoord(src, src.Accessors[idx], nil)
			if err != nil {
				return out, fmt.Errorf("failed to read texcoord 1: %w", err)
			}
			prim.TexCoords1 = uv
		}
		if idx, ok := p.Attributes[qgltf.JOINTS_0]; ok {
			joints, err := modeler.ReadJoints(src, src.Accessors[idx], nil)
			if err != nil {
				return out, fmt.Errorf("failed to read joints: %w", err)
			}
			prim.Joints0 = joints
		}
		if idx, ok := p.Attributes[qgltf.WEIGHTS_0]; ok {
			weights, err := modeler.ReadWeights(src, src.Accessors[idx], nil)
			if err != nil {
				return out, fmt.Errorf("failed to read weights: %w", err)
			}
			prim.Weights0 = weights
		}
		if p.Indices != nil {
			indices, err := modeler.ReadIndices(src, src.Accessors[*p.Indices], nil)
			if err != nil {
				return out, fmt.Errorf("failed to read indices: %w", err)
			}
			prim.Indices = indices
		}

		out.Primitives = append(out.Primitives, prim)
	}
	return out, nil
}

func convertMode(mode qgltf.PrimitiveMode) importer.PrimitiveMode {
	switch mode {
	case qgltf.PrimitivePoints:
		return importer.ModePoints
	case qgltf.PrimitiveLines:
		return importer.ModeLines
	case qgltf.PrimitiveLineLoop:
		return importer.ModeLineLoop
	case qgltf.PrimitiveLineStrip:
		return importer.ModeLineStrip
	case qgltf.PrimitiveTriangleStrip:
		return importer.ModeTriangleStrip
	case qgltf.PrimitiveTriangleFan:
		return importer.ModeTriangleFan
	default:
		return importer.ModeTriangles
	}
}

func convertMaterial(m *qgltf.Material) importer.Material {
	out := importer.Material{
		Name:         m.Name,
		Textures:     make(map[string]importer.TextureRef),
		Factors:      make(map[string]float32),
		ColorFactors: make(map[string][4]float32),
		AlphaMode:    "OPAQUE",
		AlphaCutoff:  0.5,
		DoubleSided:  m.DoubleSided,
	}

	switch m.AlphaMode {
	case qgltf.AlphaMask:
		out.AlphaMode = "MASK"
	case qgltf.AlphaBlend:
		out.AlphaMode = "BLEND"
	}
	if m.AlphaCutoff != nil {
		out.AlphaCutoff = float32(*m.AlphaCutoff)
	}

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		base := [4]float32{1, 1, 1, 1}
		if pbr.BaseColorFactor != nil {
			for i, v := range pbr.BaseColorFactor {
				base[i] = float32(v)
			}
		}
		out.ColorFactors["baseColor"] = base

		metallic, roughness := float32(1), float32(1)
		if pbr.MetallicFactor != nil {
			metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			roughness = float32(*pbr.RoughnessFactor)
		}
		out.Factors["metallic"] = metallic
		out.Factors["roughness"] = roughness

		if pbr.BaseColorTexture != nil {
			out.Textures["baseColor"] = importer.TextureRef{Index: pbr.BaseColorTexture.Index, TexCoord: pbr.BaseColorTexture.TexCoord}
		}
		if pbr.MetallicRoughnessTexture != nil {
			out.Textures["metallicRoughness"] = importer.TextureRef{Index: pbr.MetallicRoughnessTexture.Index, TexCoord: pbr.MetallicRoughnessTexture.TexCoord}
		}
	}

	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		out.Textures["normal"] = importer.TextureRef{Index: *m.NormalTexture.Index, TexCoord: m.NormalTexture.TexCoord}
	}
	if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
		out.Textures["occlusion"] = importer.TextureRef{Index: *m.OcclusionTexture.Index, TexCoord: m.OcclusionTexture.TexCoord}
	}
	if m.EmissiveTexture != nil {
		out.Textures["emissive"] = importer.TextureRef{Index: m.EmissiveTexture.Index, TexCoord: m.EmissiveTexture.TexCoord}
	}
	out.ColorFactors["emissive"] = [4]float32{
		float32(m.EmissiveFactor[0]),
		float32(m.EmissiveFactor[1]),
		float32(m.EmissiveFactor[2]),
		1,
	}

	if len(m.Extensions) > 0 {
		out.Extensions = make(map[string]map[string]any, len(m.Extensions))
		for name, ext := range m.Extensions {
			if fields := extensionFields(ext); fields != nil {
				out.Extensions[name] = fields
			}
		}
	}
	return out
}

// extensionFields normalizes an unregistered extension payload into a
// generic field map.
func extensionFields(ext any) map[string]any {
	switch v := ext.(type) {
	case map[string]any:
		return v
	case json.RawMessage:
		var fields map[string]any
		if err := json.Unmarshal(v, &fields); err != nil {
			return nil
		}
		return fields
	default:
		return nil
	}
}

func loadImage(src *qgltf.Document, img *qgltf.Image, baseDir, docPath string, index int, cache *resources.TextureCache) importer.Image {
	out := importer.Image{Name: img.Name, URI: img.URI}

	var data []byte
	switch {
	case strings.HasPrefix(img.URI, "data:"):
		out.CacheKey = ""
		if decoded, err := decodeDataURI(img.URI); err == nil {
			data = decoded
		} else {
			core.LogWarn("failed to decode embedded image %d: %v", index, err)
		}
	case img.URI != "":
		rel := img.URI
		if unescaped, err := url.PathUnescape(rel); err == nil {
			rel = unescaped
		}
		full := filepath.Join(baseDir, rel)
		out.CacheKey = resources.CacheKey(full)
		if cache != nil {
			if h := cache.Lookup(out.CacheKey); h != nil {
				h.Release()
				return out
			}
		}
		fileData, err := os.ReadFile(full)
		if err != nil {
			core.LogWarn("failed to read image file %q: %v", full, err)
			return out
		}
		data = fileData
	case img.BufferView != nil:
		out.CacheKey = resources.CacheKey(fmt.Sprintf("%s#image%d", docPath, index))
		if cache != nil {
			if h := cache.Lookup(out.CacheKey); h != nil {
				h.Release()
				return out
			}
		}
		viewData, err := modeler.ReadBufferView(src, src.BufferViews[*img.BufferView])
		if err != nil {
			core.LogWarn("failed to read image buffer view %d: %v", index, err)
			return out
		}
		data = viewData
	}

	if len(data) == 0 {
		return out
	}

	out.Container = assets.SniffContainer(data)
	if out.Container != assets.ContainerPixels {
		out.Raw = data
		return out
	}

	pixels, err := assets.DecodeImage(data)
	if err != nil {
		core.LogWarn("failed to decode image %d (%s): %v", index, img.URI, err)
		return out
	}
	out.Pixels = pixels
	return out
}

func decodeDataURI(uri string) ([]byte, error) {
	sep := strings.Index(uri, ",")
	if sep < 0 {
		return nil, fmt.Errorf("malformed data uri")
	}
	meta, payload := uri[:sep], uri[sep+1:]
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(unescaped), nil
}

func convertSampler(s *qgltf.Sampler) importer.Sampler {
	out := importer.Sampler{}

	switch s.MagFilter {
	case qgltf.MagNearest:
		out.MagFilter = importer.FilterModeNearest
	case qgltf.MagLinear:
		out.MagFilter = importer.FilterModeLinear
	}
	switch s.MinFilter {
	case qgltf.MinNearest, qgltf.MinNearestMipMapNearest, qgltf.MinNearestMipMapLinear:
		out.MinFilter = importer.FilterModeNearest
	case qgltf.MinLinear, qgltf.MinLinearMipMapNearest, qgltf.MinLinearMipMapLinear:
		out.MinFilter = importer.FilterModeLinear
	}
	out.WrapS = convertWrap(s.WrapS)
	out.WrapT = convertWrap(s.WrapT)
	return out
}

func convertWrap(w qgltf.WrappingMode) importer.WrapMode {
	switch w {
	case qgltf.WrapClampToEdge:
		return importer.WrapModeClampToEdge
	case qgltf.WrapMirroredRepeat:
		return importer.WrapModeMirroredRepeat
	default:
		return importer.WrapModeRepeat
	}
}

func convertSkin(src *qgltf.Document, s *qgltf.Skin) (importer.Skin, error) {
	out := importer.Skin{Name: s.Name, Joints: s.Joints}
	if s.InverseBindMatrices == nil {
		return out, nil
	}
	raw, err := modeler.ReadAccessor(src, src.Accessors[*s.InverseBindMatrices], nil)
	if err != nil {
		return out, fmt.Errorf("failed to read inverse bind matrices: %w", err)
	}
	mats, ok := raw.([][4][4]float32)
	if !ok {
		return out, fmt.Errorf("unexpected inverse bind matrix layout %T", raw)
	}
	out.InverseBindMatrices = make([][16]float32, len(mats))
	for i, m := range mats {
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				out.InverseBindMatrices[i][col*4+row] = m[col][row]
			}
		}
	}
	return out, nil
}

func convertAnimation(src *qgltf.Document, a *qgltf.Animation) (importer.Animation, error) {
	out := importer.Animation{Name: a.Name}

	for _, s := range a.Samplers {
		sampler := importer.AnimationSampler{}
		switch s.Interpolation {
		case qgltf.InterpolationStep:
			sampler.Interpolation = importer.InterpolationStep
		case qgltf.InterpolationCubicSpline:
			sampler.Interpolation = importer.InterpolationCubicSpline
		default:
			sampler.Interpolation = importer.InterpolationLinear
		}

		inputs, err := modeler.ReadAccessor(src, src.Accessors[s.Input], nil)
		if err != nil {
			return out, fmt.Errorf("failed to read animation inputs: %w", err)
		}
		times, ok := inputs.([]float32)
		if !ok {
			return out, fmt.Errorf("unexpected animation input layout %T", inputs)
		}
		sampler.Inputs = times

		outputs, err := modeler.ReadAccessor(src, src.Accessors[s.Output], nil)
		if err != nil {
			return out, fmt.Errorf("failed to read animation outputs: %w", err)
		}
		sampler.Outputs, err = widenOutputs(outputs)
		if err != nil {
			return out, err
		}

		out.Samplers = append(out.Samplers, sampler)
	}

	for _, c := range a.Channels {
		if c.Target.Node == nil {
			continue
		}
		ch := importer.AnimationChannel{Sampler: c.Sampler, Node: *c.Target.Node}
		switch c.Target.Path {
		case qgltf.TRSTranslation:
			ch.Path = importer.PathTranslation
		case qgltf.TRSRotation:
			ch.Path = importer.PathRotation
		case qgltf.TRSScale:
			ch.Path = importer.PathScale
		case qgltf.TRSWeights:
			ch.Path = importer.PathWeights
		default:
			continue
		}
		out.Channels = append(out.Channels, ch)
	}
	return out, nil
}

// widenOutputs converts keyframe outputs of any component count to
// four-component values. Normalized integer rotations are expanded to
// floats per the accessor normalization rules.
func widenOutputs(raw any) ([][4]float32, error) {
	switch v := raw.(type) {
	case [][4]float32:
		return v, nil
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, e := range v {
			out[i] = [4]float32{e[0], e[1], e[2], 0}
		}
		return out, nil
	case []float32:
		out := make([][4]float32, len(v))
		for i, e := range v {
			out[i] = [4]float32{e, 0, 0, 0}
		}
		return out, nil
	case [][4]int8:
		out := make([][4]float32, len(v))
		for i, e := range v {
			for c := 0; c < 4; c++ {
				f := float32(e[c]) / 127
				if f < -1 {
					f = -1
				}
				out[i][c] = f
			}
		}
		return out, nil
	case [][4]uint8:
		out := make([][4]float32, len(v))
		for i, e := range v {
			for c := 0; c < 4; c++ {
				out[i][c] = float32(e[c]) / 255
			}
		}
		return out, nil
	case [][4]int16:
		out := make([][4]float32, len(v))
		for i, e := range v {
			for c := 0; c < 4; c++ {
				f := float32(e[c]) / 32767
				if f < -1 {
					f = -1
				}
				out[i][c] = f
			}
		}
		return out, nil
	case [][4]uint16:
		out := make([][4]float32, len(v))
		for i, e := range v {
			for c := 0; c < 4; c++ {
				out[i][c] = float32(e[c]) / 65535
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected animation output layout %T", raw)
	}
}

func convertCamera(c *qgltf.Camera) importer.Camera {
	out := importer.Camera{Name: c.Name}
	if c.Perspective != nil {
		out.Type = "perspective"
		if c.Perspective.AspectRatio != nil {
			out.AspectRatio = float32(*c.Perspective.AspectRatio)
		}
		out.YFov = float32(c.Perspective.Yfov)
		out.ZNear = float32(c.Perspective.Znear)
		if c.Perspective.Zfar != nil {
			out.ZFar = float32(*c.Perspective.Zfar)
		}
	} else if c.Orthographic != nil {
		out.Type = "orthographic"
		out.XMag = float32(c.Orthographic.Xmag)
		out.YMag = float32(c.Orthographic.Ymag)
		out.ZNear = float32(c.Orthographic.Znear)
		out.ZFar = float32(c.Orthographic.Zfar)
	}
	return out
}
