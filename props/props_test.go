package props

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMap(t *testing.T) {
	m := Map{"a": "1"}
	v, ok := m.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	var empty Map
	_, ok = empty.Lookup("a")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Run("SingleFile", func(t *testing.T) {
		path := writeFile(t, "app.properties", "# defaults\ndb.host=localhost\nDB_PORT=5432\nname=\"ioc demo\"\n")

		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Map{"db.host": "localhost", "DB_PORT": "5432", "name": "ioc demo"}, m)
	})

	t.Run("LaterFilesWin", func(t *testing.T) {
		base := writeFile(t, "base.env", "LEVEL=info\nPORT=8080\n")
		local := writeFile(t, "local.env", "LEVEL=debug\n")

		m, err := Load(base, local)
		require.NoError(t, err)
		assert.Equal(t, "debug", m["LEVEL"])
		assert.Equal(t, "8080", m["PORT"])
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading properties from")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader("export TOKEN=abc\nREGION=eu-west-1 # inline comment\n"))
	require.NoError(t, err)
	assert.Equal(t, "abc", m["TOKEN"])
	assert.Equal(t, "eu-west-1", m["REGION"])
}

func TestEnv(t *testing.T) {
	t.Setenv("IOCTEST_DB_HOST", "db.internal")
	t.Setenv("CACHE_TTL", "30s")

	prefixed := Env("ioctest")
	v, ok := prefixed.Lookup("db.host")
	assert.True(t, ok)
	assert.Equal(t, "db.internal", v)

	plain := Env("")
	v, ok = plain.Lookup("cache-ttl")
	assert.True(t, ok)
	assert.Equal(t, "30s", v)

	_, ok = plain.Lookup("no.such.key")
	assert.False(t, ok)
}

func TestChain(t *testing.T) {
	src := Chain(nil, Map{"a": "first"}, Map{"a": "second", "b": "fallback"})

	v, ok := src.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = src.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "fallback", v)

	_, ok = src.Lookup("c")
	assert.False(t, ok)
}
