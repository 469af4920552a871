package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRequiresURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	err := Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}
