package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPasswordValid(t *testing.T) {
	assert.True(t, IsPasswordValid("Password1"))
	assert.False(t, IsPasswordValid("short"))
	assert.False(t, IsPasswordValid("alllowercase1"))
	assert.False(t, IsPasswordValid("ALLUPPERCASE1"))
	assert.False(t, IsPasswordValid("NoDigitsHere"))
	assert.False(t, IsPasswordValid("Aa1"+strings.Repeat("x", 20)))
}

func TestGenerateBlogID(t *testing.T) {
	id := GenerateBlogID("Hello, World! 2024")
	assert.True(t, strings.HasPrefix(id, "Hello-World-2024-"))

	// 同一标题生成不同的标识
	assert.NotEqual(t, GenerateBlogID("same title"), GenerateBlogID("same title"))
}

func TestGenerateUsername(t *testing.T) {
	assert.Equal(t, "alice", GenerateUsername("alice@example.com"))
	assert.Len(t, RandomSuffix(5), 5)
}
