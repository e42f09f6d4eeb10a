package gltf

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aurora/engine/importer"
)

// writeAnimatedFile writes a minimal scene with one translation
// animation: two keyframes at t=0 and t=1 moving the node to (1, 2, 3).
func writeAnimatedFile(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []float32{0, 1}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [][3]float32{{0, 0, 0}, {1, 2, 3}}))
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	content := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"scenes": [{"nodes": [0]}],
		"nodes": [{"name": "mover"}],
		"buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 8},
			{"buffer": 0, "byteOffset": 8, "byteLength": 24}
		],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 2, "type": "SCALAR", "min": [0], "max": [1]},
			{"bufferView": 1, "componentType": 5126, "count": 2, "type": "VEC3"}
		],
		"animations": [{
			"samplers": [{"input": 0, "output": 1, "interpolation": "LINEAR"}],
			"channels": [{"sampler": 0, "target": {"node": 0, "path": "translation"}}]
		}]
	}`, buf.Len(), encoded)

	path := filepath.Join(t.TempDir(), "animated.gltf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportAnimationChannels(t *testing.T) {
	doc, err := ImportFile(writeAnimatedFile(t), ImportOptions{})
	require.NoError(t, err)

	require.Len(t, doc.Animations, 1)
	anim := doc.Animations[0]

	require.Len(t, anim.Channels, 1)
	assert.Equal(t, 0, anim.Channels[0].Sampler)
	assert.Equal(t, 0, anim.Channels[0].Node)
	assert.Equal(t, importer.PathTranslation, anim.Channels[0].Path)

	require.Len(t, anim.Samplers, 1)
	assert.Equal(t, importer.InterpolationLinear, anim.Samplers[0].Interpolation)
	assert.Equal(t, []float32{0, 1}, anim.Samplers[0].Inputs)
	require.Len(t, anim.Samplers[0].Outputs, 2)
	assert.Equal(t, [4]float32{1, 2, 3, 0}, anim.Samplers[0].Outputs[1])
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "missing.gltf"), ImportOptions{})
	assert.Error(t, err)
}
