package readfiles

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopart/utils"
)

func writeScript(t *testing.T, dir, name, body string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestRunTool(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	var out bytes.Buffer
	echo := writeScript(t, dir, "echo.sh", `echo "args: $@"`+"\n")
	require.NoError(t, RunTool(ctx, &out, nil, echo, "a", "b"))
	assert.Equal(t, "args: a b\n", out.String())

	fail := writeScript(t, dir, "fail.sh", "echo broken >&2\nexit 3\n")
	err := RunTool(ctx, nil, nil, fail)
	assert.True(t, errors.Is(err, utils.ErrExternalTool))
	assert.Contains(t, err.Error(), "broken")

	err = RunTool(ctx, nil, nil, filepath.Join(dir, "does-not-exist"))
	assert.True(t, errors.Is(err, utils.ErrExternalTool))
}

func TestConvertExodus(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	base := filepath.Join(dir, "mesh")
	require.NoError(t, os.WriteFile(base+".exo", []byte("binary"), 0644))

	var tools ExodusTools
	tools.Ncdump = writeScript(t, dir, "ncdump", `echo "netcdf $1"`+"\n")
	tools.Exo2Triangle = writeScript(t, dir, "exo2tri", `
out=""
for a in "$@"; do
  case $a in --o=*) out="${a#--o=}";; esac
done
printf '3 2 0 0\n0 0 0\n1 1 0\n2 0 1\n' > "$out.node"
printf '1 3 0\n0 0 1 2\n' > "$out.ele"
`)
	require.NoError(t, ConvertExodus(ctx, tools, base))
	dump, err := os.ReadFile(base + ".ncdf")
	require.NoError(t, err)
	assert.Equal(t, "netcdf "+base+".exo\n", string(dump))
	m, _, err := ReadTriangleMesh(base)
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumElems())

	// A converter that exits cleanly but writes nothing
	tools.Exo2Triangle = writeScript(t, dir, "lazy", "exit 0\n")
	lazyBase := filepath.Join(dir, "other")
	err = ConvertExodus(ctx, tools, lazyBase)
	assert.True(t, errors.Is(err, utils.ErrExternalTool))
}
