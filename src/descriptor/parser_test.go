package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleCall(t *testing.T) {
	calls, err := Parse(`python_lib(name="foo", srcs=["a.py", "b.py"], deps=[":bar"])`)
	require.NoError(t, err)
	require.Len(t, calls, 1)

	call := calls[0]
	assert.Equal(t, "python_lib", call.Name)
	assert.Equal(t, "foo", call.Args["name"].AsString())
	assert.Equal(t, []string{"a.py", "b.py"}, call.Args["srcs"].AsStringList())
	assert.Equal(t, []string{":bar"}, call.Args["deps"].AsStringList())
}

func TestParseMultipleCallsAndComments(t *testing.T) {
	src := `
# a first-party library
python_lib(name="lib", srcs=["lib.py"])

python_bin(
    name="bin",
    entry_point="lib:main",
    deps=[":lib"],
)
`
	calls, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "python_lib", calls[0].Name)
	assert.Equal(t, "python_bin", calls[1].Name)
	assert.Equal(t, "lib:main", calls[1].Args["entry_point"].AsString())
}

func TestParseLiteralKinds(t *testing.T) {
	calls, err := Parse(`debian_pkg(name="pkg", version="1.2.3", optional=True, broken=False, note=None, revision=4)`)
	require.NoError(t, err)
	args := calls[0].Args
	assert.True(t, args["optional"].AsBool())
	assert.False(t, args["broken"].AsBool())
	assert.True(t, args["note"].IsNone())
	assert.Equal(t, int64(4), args["revision"].Int)
}

func TestParseRejectsUnterminatedCall(t *testing.T) {
	_, err := Parse(`python_lib(name="foo"`)
	assert.Error(t, err)
}

func TestParseRejectsUnknownToken(t *testing.T) {
	_, err := Parse(`python_lib(name="foo" @)`)
	assert.Error(t, err)
}
