package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePtr(t *testing.T) {
	svc := NewSectionService([]string{"Prowess", "Fortitude", "Integrity", "Resilience", "Valor", "Harmony"})

	got := svc.NormalizePtr("resilence")
	require.NotNil(t, got)
	assert.Equal(t, "Resilience", *got)

	assert.Nil(t, svc.NormalizePtr("grade 7"))
	assert.Nil(t, svc.NormalizePtr(""))
}
