package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

func TestNewTenantID(t *testing.T) {
	id, err := shared.NewTenantID("acme")

	require.NoError(t, err)
	assert.Equal(t, "acme", id.Value())
	assert.False(t, id.IsZero())
}

func TestNewTenantID_RejectsEmpty(t *testing.T) {
	_, err := shared.NewTenantID("")

	require.Error(t, err)
}

func TestTenantID_Equals(t *testing.T) {
	a := shared.MustNewTenantID("acme")
	b := shared.MustNewTenantID("acme")
	c := shared.MustNewTenantID("globex")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, shared.TenantID{}.IsZero())
}
