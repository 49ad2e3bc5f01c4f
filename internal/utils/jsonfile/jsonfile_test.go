package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic_ReplacesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	require.NoError(t, WriteAtomic(path, map[string]string{"a": "first"}))
	require.NoError(t, WriteAtomic(path, map[string]string{"b": "https://x.test/?a=1&b=2"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": \"https://x.test/?a=1&b=2\"\n}\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files should be left behind")
	assert.Equal(t, "out.json", entries[0].Name())
}

func TestWriteAtomic_EncodeFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	err := WriteAtomic(path, map[string]interface{}{"bad": make(chan int)})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x"}`), 0o600))

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, Read(path, &out))
	assert.Equal(t, "x", out.Name)

	assert.Error(t, Read(filepath.Join(dir, "missing.json"), &out))

	require.NoError(t, os.WriteFile(path, []byte(`{"name":`), 0o600))
	err := Read(path, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestMarshal_NoHTMLEscapingNoNewline(t *testing.T) {
	data, err := Marshal(map[string]string{"u": "/a?b=1&c=<2>"})
	require.NoError(t, err)
	assert.Equal(t, `{"u":"/a?b=1&c=<2>"}`, string(data))
}
