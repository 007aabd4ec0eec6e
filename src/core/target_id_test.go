package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetID(t *testing.T) {
	id, err := ParseTargetID("/lev1/lev2:blah")
	require.NoError(t, err)
	assert.Equal(t, "/lev1/lev2", id.Path)
	assert.Equal(t, "blah", id.Name)
	assert.True(t, id.IsAbsolute())
	assert.True(t, id.HasName())
	assert.True(t, id.IsNormalized())

	id, err = ParseTargetID("../lev2")
	require.NoError(t, err)
	assert.True(t, id.IsRelative())
	assert.False(t, id.HasName())
	assert.False(t, id.IsNormalized())
}

func TestParseTargetIDRoundTrip(t *testing.T) {
	for _, s := range []string{"/lev1/lev2:blah", "../lev2", "/", "/:name", "rel/path:name"} {
		id, err := ParseTargetID(s)
		require.NoError(t, err)
		assert.Equal(t, s, id.String())
	}
}

func TestParseTargetIDRejectsMultipleColons(t *testing.T) {
	_, err := ParseTargetID("/lev1:blah:extra")
	assert.Error(t, err)
	var invalid *InvalidTargetIDError
	assert.ErrorAs(t, err, &invalid)
}

func TestNewTargetIDRejectsTrailingSlash(t *testing.T) {
	_, err := NewTargetID("/testdir/", "testname")
	assert.Error(t, err)
}

func TestNewTargetIDAllowsRepoRoot(t *testing.T) {
	id, err := NewTargetID("/", "name")
	require.NoError(t, err)
	assert.Equal(t, "/:name", id.String())
}

func TestNormalizeAlreadyNormalizedIsIdentity(t *testing.T) {
	n := NewNormalizer("/repo")
	id, _ := NewTargetID("/lev1", "blah")
	got, err := n.Normalize(id)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestNormalizePathRelative(t *testing.T) {
	n := NewNormalizer(".")
	got, err := n.NormalizePath("lev2")
	require.NoError(t, err)
	assert.Equal(t, "/lev2", got)
}

func TestNormalizePathOutsideRepository(t *testing.T) {
	n := NewNormalizer("/repo")
	_, err := n.NormalizePath("/elsewhere/../../outside")
	assert.Error(t, err)
	var outside *OutsideRepositoryError
	assert.ErrorAs(t, err, &outside)
}

func TestNormalizeInDescriptor(t *testing.T) {
	n := NewNormalizer("/repo")
	id, _ := NewTargetID("", "")
	got := n.NormalizeInDescriptor(id, "/lev1/lev2")
	assert.Equal(t, "/lev1/lev2", got.Path)

	id, _ = NewTargetID("sub", "name")
	got = n.NormalizeInDescriptor(id, "/lev1")
	assert.Equal(t, "/lev1/sub:name", got.String())
}

func TestTargetIDEqualAndHash(t *testing.T) {
	a, _ := NewTargetID("/lev1", "blah")
	b, _ := NewTargetID("/lev1", "blah")
	c, _ := NewTargetID("/lev1", "other")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
}

func TestRepoRelPath(t *testing.T) {
	id, _ := NewTargetID("/", "name")
	assert.Equal(t, ".", id.RepoRelPath())

	id, _ = NewTargetID("/lev1/lev2", "name")
	assert.Equal(t, "lev1/lev2", id.RepoRelPath())
}
