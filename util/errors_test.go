package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUsage(t *testing.T) {
	err := Usagef("image file %s not found", "disk.img")
	assert.True(t, IsUsage(err))
	assert.Equal(t, "image file disk.img not found", err.Error())

	// survives wrapping
	assert.True(t, IsUsage(fmt.Errorf("checking arguments: %w", err)))

	assert.False(t, IsUsage(errors.New("mount failed")))
	assert.False(t, IsUsage(nil))
}
