package model

import (
	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/math"
)

// AnimationInterpolation names how keyframes are blended.
type AnimationInterpolation uint8

const (
	InterpolationLinear AnimationInterpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// AnimationPath names the node property a channel drives.
type AnimationPath uint8

const (
	AnimationPathTranslation AnimationPath = iota
	AnimationPathRotation
	AnimationPathScale
	AnimationPathWeights
)

/**
 * @brief Keyframe times and values shared by one or more channels.
 * Outputs are stored four wide; translation and scale use XYZ.
 */
type AnimationSampler struct {
	Inputs        []float32
	Outputs       [][4]float32
	Interpolation AnimationInterpolation
}

/**
 * @brief Binds a sampler to the node property it animates.
 */
type AnimationChannel struct {
	SamplerIndex int
	NodeIndex    int
	Path         AnimationPath
}

type Animation struct {
	Name     string
	Samplers []AnimationSampler
	Channels []AnimationChannel
	/** @brief Earliest keyframe time across all samplers. */
	Start float32
	/** @brief Latest keyframe time across all samplers. */
	End float32
}

/**
 * @brief Samples the animation at the given time and writes the
 * resulting per node factors into t. Time outside the animation range
 * clamps to the first or last keyframe. Nodes no channel touches keep
 * their static factors.
 */
func (m *Model) updateAnimation(index int, time float32, t *ModelTransforms) {
	anim := &m.Animations[index]
	time = math.Clamp(time, anim.Start, anim.End)

	for i := range m.Nodes {
		n := &m.Nodes[i]
		a := nodeAnimation{
			rotation: math.NewQuatIdentity(),
			scale:    math.NewVec3One(),
		}
		if n.Translation != nil {
			a.translation = *n.Translation
		}
		if n.Rotation != nil {
			a.rotation = *n.Rotation
		}
		if n.Scale != nil {
			a.scale = *n.Scale
		}
		t.nodeAnimations[i] = a
	}
	t.animated = true

	for _, ch := range anim.Channels {
		if ch.SamplerIndex < 0 || ch.SamplerIndex >= len(anim.Samplers) {
			continue
		}
		if ch.NodeIndex < 0 || ch.NodeIndex >= len(m.Nodes) {
			continue
		}
		if ch.Path == AnimationPathWeights {
			core.LogWarn("morph target weights are not supported")
			continue
		}

		sampler := &anim.Samplers[ch.SamplerIndex]
		if sampler.Interpolation == InterpolationCubicSpline {
			core.LogWarn("cubic spline interpolation is not supported, skipping channel")
			continue
		}
		if len(sampler.Inputs) == 0 || len(sampler.Outputs) < len(sampler.Inputs) {
			continue
		}

		for i := 0; i+1 < len(sampler.Inputs); i++ {
			if time < sampler.Inputs[i] || time > sampler.Inputs[i+1] {
				continue
			}
			u := float32(0)
			if sampler.Interpolation == InterpolationLinear && sampler.Inputs[i+1] > sampler.Inputs[i] {
				u = (time - sampler.Inputs[i]) / (sampler.Inputs[i+1] - sampler.Inputs[i])
			}
			applyChannel(&t.nodeAnimations[ch.NodeIndex], ch.Path, sampler.Outputs[i], sampler.Outputs[i+1], u)
			break
		}
	}
}

func applyChannel(a *nodeAnimation, path AnimationPath, from, to [4]float32, u float32) {
	switch path {
	case AnimationPathTranslation:
		a.translation = math.Vec3{X: from[0], Y: from[1], Z: from[2]}.
			Lerp(math.Vec3{X: to[0], Y: to[1], Z: to[2]}, u)
	case AnimationPathScale:
		a.scale = math.Vec3{X: from[0], Y: from[1], Z: from[2]}.
			Lerp(math.Vec3{X: to[0], Y: to[1], Z: to[2]}, u)
	case AnimationPathRotation:
		q0 := math.NewQuat(from[0], from[1], from[2], from[3])
		q1 := math.NewQuat(to[0], to[1], to[2], to[3])
		a.rotation = q0.Slerp(q1, u).Normalize()
	}
}
