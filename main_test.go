package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KevinGhlee/portfolio/internal/effects"
)

func TestFieldCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"field", "--variant", "cells", "--seed", "5", "--effects", ""})
	require.NoError(t, rootCmd.Execute())

	var got struct {
		Variant   effects.Variant `json:"variant"`
		Particles effects.Batch   `json:"particles"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "cells", got.Variant.Name)
	assert.Len(t, got.Particles, 130)
	assert.Equal(t, effects.Generate(effects.Cells(), effects.NewSource(5)), got.Particles)
}
