package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hifi-account-api/internal/domain"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	s, closer, err := Open(Options{Driver: "file", Path: path})
	require.NoError(t, err)
	defer closer()
	assert.FileExists(t, path)

	before := testutil.ToFloat64(storeOps.WithLabelValues("file", "save", "ok"))
	require.NoError(t, s.Save(context.Background(), []domain.User{{Email: "a@x.com"}}))
	after := testutil.ToFloat64(storeOps.WithLabelValues("file", "save", "ok"))
	assert.Equal(t, before+1, after)
}

func TestOpen_Memory(t *testing.T) {
	s, closer, err := Open(Options{Driver: "memory"})
	require.NoError(t, err)
	defer closer()

	users, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpen_Errors(t *testing.T) {
	_, _, err := Open(Options{Driver: "sql"})
	require.Error(t, err)

	_, _, err = Open(Options{Driver: "mongo"})
	require.ErrorContains(t, err, "unsupported store driver")
}
