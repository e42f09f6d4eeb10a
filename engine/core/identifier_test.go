package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionIDIsUnique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestNewResourceNameKeepsPrefix(t *testing.T) {
	name := NewResourceName("placeholder")
	assert.True(t, strings.HasPrefix(name, "placeholder_"))
	assert.NotEqual(t, name, NewResourceName("placeholder"))
}
