package model

import (
	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/importer"
	"github.com/spaghettifunk/aurora/engine/math"
)

// AlphaMode describes how a material's alpha channel is interpreted.
type AlphaMode uint8

const (
	AlphaModeOpaque AlphaMode = iota
	AlphaModeMask
	AlphaModeBlend
)

// ShadingMode selects which PBR workflow the material uses.
type ShadingMode uint8

const (
	ShadingMetallicRoughness ShadingMode = iota
	ShadingSpecularGlossiness
)

// Texture attribute slots of a material.
const (
	TextureAttribBaseColor = iota
	/** @brief Metallic-roughness or specular-glossiness map. */
	TextureAttribPhysicalDesc
	TextureAttribNormal
	TextureAttribOcclusion
	TextureAttribEmissive
	NumTextureAttribs
)

/**
 * @brief One texture binding of a material. Index refers to the
 * model's texture slots; UVScaleBias remaps UVs into a shared atlas
 * region when the texture is suballocated.
 */
type TextureAttrib struct {
	/** @brief Index into Model.Textures, -1 when the slot is unused. */
	Index int
	/** @brief Which UV set addresses the texture. */
	UVSelector int
	/** @brief Scale in XY and bias in ZW applied to UVs. */
	UVScaleBias math.Vec4
}

type Material struct {
	Name    string
	Shading ShadingMode

	BaseColorFactor math.Vec4
	EmissiveFactor  math.Vec4
	MetallicFactor  float32
	RoughnessFactor float32
	/** @brief Specular color for the specular-glossiness workflow. */
	SpecularFactor   math.Vec4
	GlossinessFactor float32

	AlphaMode   AlphaMode
	AlphaCutoff float32
	DoubleSided bool

	Textures [NumTextureAttribs]TextureAttrib
}

const specGlossExtension = "KHR_materials_pbrSpecularGlossiness"

func newDefaultMaterial() Material {
	m := Material{
		Name:             "default",
		BaseColorFactor:  math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		EmissiveFactor:   math.Vec4{W: 1},
		MetallicFactor:   1,
		RoughnessFactor:  1,
		SpecularFactor:   math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		GlossinessFactor: 1,
		AlphaMode:        AlphaModeOpaque,
		AlphaCutoff:      0.5,
	}
	for i := range m.Textures {
		m.Textures[i] = TextureAttrib{Index: -1, UVScaleBias: math.Vec4{X: 1, Y: 1}}
	}
	return m
}

func buildMaterial(src importer.Material) Material {
	m := newDefaultMaterial()
	m.Name = src.Name

	switch src.AlphaMode {
	case "MASK":
		m.AlphaMode = AlphaModeMask
	case "BLEND":
		m.AlphaMode = AlphaModeBlend
	}
	m.AlphaCutoff = src.AlphaCutoff
	m.DoubleSided = src.DoubleSided

	if c, ok := src.ColorFactors["baseColor"]; ok {
		m.BaseColorFactor = math.Vec4{X: c[0], Y: c[1], Z: c[2], W: c[3]}
	}
	if c, ok := src.ColorFactors["emissive"]; ok {
		m.EmissiveFactor = math.Vec4{X: c[0], Y: c[1], Z: c[2], W: c[3]}
	}
	if f, ok := src.Factors["metallic"]; ok {
		m.MetallicFactor = f
	}
	if f, ok := src.Factors["roughness"]; ok {
		m.RoughnessFactor = f
	}

	assign := func(attrib int, name string) {
		if ref, ok := src.Textures[name]; ok {
			m.Textures[attrib].Index = ref.Index
			m.Textures[attrib].UVSelector = ref.TexCoord
		}
	}
	assign(TextureAttribBaseColor, "baseColor")
	assign(TextureAttribPhysicalDesc, "metallicRoughness")
	assign(TextureAttribNormal, "normal")
	assign(TextureAttribOcclusion, "occlusion")
	assign(TextureAttribEmissive, "emissive")

	if ext, ok := src.Extensions[specGlossExtension]; ok {
		applySpecGloss(&m, ext)
	}
	return m
}

// applySpecGloss switches the material to the specular-glossiness
// workflow. The diffuse map takes the base color slot and the combined
// specular-glossiness map takes the physical descriptor slot.
func applySpecGloss(m *Material, ext map[string]any) {
	m.Shading = ShadingSpecularGlossiness
	m.GlossinessFactor = 1

	if v, ok := extVec4(ext["diffuseFactor"]); ok {
		m.BaseColorFactor = v
	}
	if v, ok := extVec4(ext["specularFactor"]); ok {
		m.SpecularFactor = math.Vec4{X: v.X, Y: v.Y, Z: v.Z, W: 1}
	}
	if f, ok := ext["glossinessFactor"].(float64); ok {
		m.GlossinessFactor = float32(f)
	}
	if idx, uv, ok := extTextureRef(ext["diffuseTexture"]); ok {
		m.Textures[TextureAttribBaseColor].Index = idx
		m.Textures[TextureAttribBaseColor].UVSelector = uv
	}
	if idx, uv, ok := extTextureRef(ext["specularGlossinessTexture"]); ok {
		m.Textures[TextureAttribPhysicalDesc].Index = idx
		m.Textures[TextureAttribPhysicalDesc].UVSelector = uv
	}
}

func extVec4(v any) (math.Vec4, bool) {
	arr, ok := v.([]any)
	if !ok {
		return math.Vec4{}, false
	}
	out := math.Vec4{W: 1}
	dst := [...]*float32{&out.X, &out.Y, &out.Z, &out.W}
	for i := 0; i < len(arr) && i < 4; i++ {
		f, ok := arr[i].(float64)
		if !ok {
			return math.Vec4{}, false
		}
		*dst[i] = float32(f)
	}
	return out, true
}

func extTextureRef(v any) (index, texCoord int, ok bool) {
	fields, isMap := v.(map[string]any)
	if !isMap {
		return 0, 0, false
	}
	idx, hasIdx := fields["index"].(float64)
	if !hasIdx {
		return 0, 0, false
	}
	if tc, hasTC := fields["texCoord"].(float64); hasTC {
		texCoord = int(tc)
	}
	return int(idx), texCoord, true
}

/**
 * @brief Reconciles the alpha cutoff of every material using the given
 * texture as its base color map. Opaque usages are ignored. When one
 * material masks and another blends, alpha remapping is disabled and
 * zero is returned. When materials mask with different cutoffs, the
 * smallest cutoff wins.
 */
func textureAlphaCutoff(materials []Material, textureIndex int) float32 {
	cutoff := float32(-1)
	for i := range materials {
		mat := &materials[i]
		if mat.Textures[TextureAttribBaseColor].Index != textureIndex {
			continue
		}

		var matCutoff float32
		switch mat.AlphaMode {
		case AlphaModeOpaque:
			continue
		case AlphaModeMask:
			matCutoff = mat.AlphaCutoff
		case AlphaModeBlend:
			matCutoff = 0
		}

		if cutoff < 0 {
			cutoff = matCutoff
			continue
		}
		if cutoff == matCutoff {
			continue
		}
		if cutoff == 0 || matCutoff == 0 {
			core.LogWarn("texture %d is used by materials with both mask and blend alpha modes, disabling alpha remapping", textureIndex)
			cutoff = 0
		} else {
			core.LogWarn("texture %d is used by materials with different alpha cutoffs (%f, %f), using the smaller one", textureIndex, cutoff, matCutoff)
			cutoff = math.Min(cutoff, matCutoff)
		}
	}
	return math.Max(cutoff, 0)
}
