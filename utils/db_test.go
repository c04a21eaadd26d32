package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions_BoundOperations(t *testing.T) {
	opts := clientOptions("mongodb://localhost:27017", 3*time.Second)
	require.NoError(t, opts.Validate())

	require.NotNil(t, opts.Timeout)
	assert.Equal(t, 3*time.Second, *opts.Timeout)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, 3*time.Second, *opts.ServerSelectionTimeout)
	require.NotNil(t, opts.ConnectTimeout)
	assert.Equal(t, 3*time.Second, *opts.ConnectTimeout)
}
