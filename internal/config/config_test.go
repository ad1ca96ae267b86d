package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/lazydb/internal/db"
	"github.com/nhath/lazydb/internal/event"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout.Duration)
	assert.Empty(t, cfg.ConnectionNames())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.QueryTimeout, again.QueryTimeout)
	assert.Equal(t, cfg.Theme, again.Theme)
}

func TestLoadConnectionsAndBindings(t *testing.T) {
	path := writeConfig(t, `
query_timeout = "5s"

[connections.local]
type = "postgres"
host = "db.internal"
port = 5433
user = "app"
password = "secret"
database = "shop"

[connections.legacy]
url = "mysql://root:pw@10.0.0.2/crm"

[connections.notes]
type = "sqlite"
database = "/tmp/notes.db"

[keybindings.ExploreTables]
"g g" = "NavUp"
"ctrl+s" = "ChangeMode(ExploreSchemas)"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout.Duration)
	assert.Equal(t, []string{"legacy", "local", "notes"}, cfg.ConnectionNames())

	legacy, ok := cfg.Connection("legacy")
	require.True(t, ok)
	assert.Equal(t, "legacy", legacy.Name)
	assert.Equal(t, "mysql", legacy.Type)
	assert.Equal(t, 3306, legacy.Port)
	assert.Equal(t, "pw", legacy.Password)

	driverType, params, err := legacy.Params(nil)
	require.NoError(t, err)
	assert.Equal(t, db.MySQL, driverType)
	assert.Equal(t, "crm", params.Database)
	assert.Nil(t, params.SSHConfig)

	_, ok = cfg.Connection("missing")
	assert.False(t, ok)

	table, err := cfg.KeyTable()
	require.NoError(t, err)
	assert.Equal(t, event.NavUp{}, table[event.ModeExploreTables]["g g"])
	assert.Equal(t, event.ChangeMode{Mode: event.ModeExploreSchemas}, table[event.ModeExploreTables]["ctrl+s"])
	assert.Equal(t, event.Quit{}, table[event.ModeExploreTables]["q"], "defaults survive")
}

func TestLoadRejectsBadBindings(t *testing.T) {
	_, err := Load(writeConfig(t, "[keybindings.Nowhere]\n\"x\" = \"Quit\"\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[keybindings.EditQuery]\n\"x\" = \"Fly\"\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "query_timeout = \"soon\"\n"))
	assert.Error(t, err)
}

type fakeSecrets struct {
	key       []byte
	passwords map[string]string
}

func (f fakeSecrets) MasterKey() ([]byte, error) { return f.key, nil }

func (f fakeSecrets) Password(name string) (string, error) {
	if p, ok := f.passwords[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func TestParamsResolvesSecrets(t *testing.T) {
	key := make([]byte, 32)
	encrypted, err := Encrypt("hunter2", key)
	require.NoError(t, err)
	secrets := fakeSecrets{key: key, passwords: map[string]string{"kr": "from-keyring"}}

	_, params, err := Connection{Name: "enc", EncryptedPassword: encrypted}.Params(secrets)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", params.Password)
	assert.Equal(t, "localhost", params.Host)

	_, params, err = Connection{Name: "kr", PasswordKeyring: true}.Params(secrets)
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", params.Password)

	_, _, err = Connection{Name: "nokey", PasswordKeyring: true}.Params(secrets)
	assert.Error(t, err)

	_, _, err = Connection{Name: "bad", Type: "oracle"}.Params(secrets)
	assert.Error(t, err)

	_, params, err = Connection{Name: "tunnel", SSHHost: "bastion", SSHUser: "ops", SSHPassword: "pw"}.Params(secrets)
	require.NoError(t, err)
	require.NotNil(t, params.SSHConfig)
	assert.Equal(t, "bastion", params.SSHConfig.Host)
	assert.Equal(t, "pw", params.SSHConfig.Password)
}

func TestEncryptDecrypt(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	enc, err := Encrypt("s3cret", key)
	require.NoError(t, err)
	assert.NotContains(t, enc, "s3cret")

	dec, err := Decrypt(enc, key)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", dec)

	_, err = Decrypt("00", key)
	assert.Error(t, err)
}

func TestParseDSN(t *testing.T) {
	c, err := ParseDSN("pg", "postgresql://u:p@h:6543/d")
	require.NoError(t, err)
	assert.Equal(t, Connection{Name: "pg", Type: "postgres", Host: "h", Port: 6543, User: "u", Password: "p", Database: "d"}, c)

	c, err = ParseDSN("f", "file:test.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Type)
	assert.Equal(t, "test.db", c.Database)

	_, err = ParseDSN("bad", "mysql://h:notaport/d")
	assert.Error(t, err)
}

func TestDescribeHidesPassword(t *testing.T) {
	c := Connection{Type: "postgres", Host: "h", Port: 5432, User: "u", Password: "p", Database: "d"}
	assert.Equal(t, "postgres://u@h:5432/d", c.Describe())
	assert.Equal(t, "sqlite:///x.db", Connection{Type: "sqlite", Database: "/x.db"}.Describe())
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/env/config.toml")
	p, err := ResolvePath("/flag/config.toml")
	require.NoError(t, err)
	assert.Equal(t, "/flag/config.toml", p)

	p, err = ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, "/env/config.toml", p)
}
