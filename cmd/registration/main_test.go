package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReturnsFailureCode(t *testing.T) {
	t.Run("unreadable config file", func(t *testing.T) {
		assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "missing.yaml")))
	})
}
