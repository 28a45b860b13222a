package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReturnsParsableUUID(t *testing.T) {
	id := New()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestNew_ReturnsDistinctValues(t *testing.T) {
	a := New()
	b := New()
	assert.NotEqual(t, a, b)
}
