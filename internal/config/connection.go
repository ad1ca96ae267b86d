package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhath/lazydb/internal/db"
)

// Connection is one entry of the connection directory.
type Connection struct {
	Name string `toml:"-"`

	// URL is an alternative to the discrete fields below.
	URL      string `toml:"url,omitempty"`
	Type     string `toml:"type"` // postgres, mysql, sqlite
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	User     string `toml:"user,omitempty"`
	Database string `toml:"database"`

	Password          string `toml:"password,omitempty"`
	EncryptedPassword string `toml:"encrypted_password,omitempty"`
	PasswordKeyring   bool   `toml:"password_keyring,omitempty"`

	SSHHost              string `toml:"ssh_host,omitempty"`
	SSHPort              int    `toml:"ssh_port,omitempty"`
	SSHUser              string `toml:"ssh_user,omitempty"`
	SSHKeyPath           string `toml:"ssh_key_path,omitempty"`
	SSHUseAgent          bool   `toml:"ssh_use_agent,omitempty"`
	SSHPassword          string `toml:"ssh_password,omitempty"`
	EncryptedSSHPassword string `toml:"ssh_encrypted_password,omitempty"`
}

// Secrets resolves stored credentials. KeyringStore is the real one.
type Secrets interface {
	MasterKey() ([]byte, error)
	Password(connection string) (string, error)
}

// Params resolves the connection into driver parameters. Passwords are
// decrypted or fetched from the keyring here, so a slow keyring prompt
// only ever blocks the caller's goroutine.
func (c Connection) Params(secrets Secrets) (db.DriverType, db.ConnectParams, error) {
	driverType, err := db.ParseDriverType(c.Type)
	if err != nil {
		return "", db.ConnectParams{}, err
	}

	password, err := c.resolve(secrets, c.Password, c.EncryptedPassword, c.PasswordKeyring, c.Name)
	if err != nil {
		return "", db.ConnectParams{}, fmt.Errorf("password: %w", err)
	}

	params := db.ConnectParams{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: password,
		Database: c.Database,
	}
	if params.Host == "" && driverType != db.SQLite {
		params.Host = "localhost"
	}

	if c.SSHHost != "" {
		sshPassword, err := c.resolve(secrets, c.SSHPassword, c.EncryptedSSHPassword, false, "")
		if err != nil {
			return "", db.ConnectParams{}, fmt.Errorf("ssh password: %w", err)
		}
		params.SSHConfig = &db.SSHConfig{
			Host:     c.SSHHost,
			Port:     c.SSHPort,
			User:     c.SSHUser,
			Password: sshPassword,
			KeyPath:  c.SSHKeyPath,
			UseAgent: c.SSHUseAgent,
		}
	}
	return driverType, params, nil
}

func (c Connection) resolve(secrets Secrets, plain, encrypted string, fromKeyring bool, keyringName string) (string, error) {
	switch {
	case plain != "":
		return plain, nil
	case encrypted != "":
		if secrets == nil {
			return "", fmt.Errorf("no keyring available to decrypt")
		}
		key, err := secrets.MasterKey()
		if err != nil {
			return "", err
		}
		return Decrypt(encrypted, key)
	case fromKeyring:
		if secrets == nil {
			return "", fmt.Errorf("no keyring available")
		}
		return secrets.Password(keyringName)
	}
	return "", nil
}

// Describe is a password-free summary for menus.
func (c Connection) Describe() string {
	switch c.Type {
	case "sqlite", "sqlite3":
		return "sqlite://" + c.Database
	}
	host := c.Host
	if c.Port != 0 {
		host += ":" + strconv.Itoa(c.Port)
	}
	scheme := c.Type
	if scheme == "" {
		scheme = "postgres"
	}
	s := fmt.Sprintf("%s://%s@%s/%s", scheme, c.User, host, c.Database)
	if c.SSHHost != "" {
		s += " via " + c.SSHHost
	}
	return s
}

func (c *Connection) applyURL() error {
	parsed, err := ParseDSN(c.Name, c.URL)
	if err != nil {
		return err
	}
	if c.Type == "" {
		c.Type = parsed.Type
	}
	if c.Host == "" {
		c.Host = parsed.Host
	}
	if c.Port == 0 {
		c.Port = parsed.Port
	}
	if c.User == "" {
		c.User = parsed.User
	}
	if c.Database == "" {
		c.Database = parsed.Database
	}
	if c.Password == "" && c.EncryptedPassword == "" && !c.PasswordKeyring {
		c.Password = parsed.Password
	}
	return nil
}

// ParseDSN parses a connection URL into a Connection
func ParseDSN(name, dsn string) (Connection, error) {
	c := Connection{Name: name}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		if err := c.fromURL(dsn, "postgres", 5432); err != nil {
			return c, err
		}
	case strings.HasPrefix(dsn, "mysql://"):
		if err := c.fromURL(dsn, "mysql", 3306); err != nil {
			return c, err
		}
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		c.Type = "sqlite"
		path := strings.TrimPrefix(dsn, "sqlite://")
		c.Database = strings.TrimPrefix(path, "file:")
	default:
		// bare paths are sqlite files
		c.Type = "sqlite"
		c.Database = dsn
	}
	return c, nil
}

func (c *Connection) fromURL(dsn, driverType string, defaultPort int) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return err
	}
	c.Type = driverType
	c.Host = u.Hostname()
	c.Port = defaultPort
	if port := u.Port(); port != "" {
		c.Port, err = strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q", port)
		}
	}
	c.User = u.User.Username()
	c.Password, _ = u.User.Password()
	c.Database = strings.TrimPrefix(u.Path, "/")
	return nil
}

// AddConnection stores a new connection and saves the file. A password is
// encrypted with the keyring master key unless storeInKeyring is set, in
// which case it goes to the keyring itself.
func (c *Config) AddConnection(conn Connection, store *KeyringStore, storeInKeyring bool) error {
	if _, exists := c.Connections[conn.Name]; exists {
		return fmt.Errorf("connection already exists: %s", conn.Name)
	}
	if conn.Password != "" && store != nil {
		if storeInKeyring {
			if err := store.SetPassword(conn.Name, conn.Password); err != nil {
				return err
			}
			conn.PasswordKeyring = true
		} else {
			key, err := store.MasterKey()
			if err != nil {
				return err
			}
			encrypted, err := Encrypt(conn.Password, key)
			if err != nil {
				return err
			}
			conn.EncryptedPassword = encrypted
		}
		conn.Password = ""
	}
	conn.URL = ""
	if c.Connections == nil {
		c.Connections = map[string]Connection{}
	}
	c.Connections[conn.Name] = conn
	return c.Save()
}

// RemoveConnection deletes a connection and saves the file.
func (c *Config) RemoveConnection(name string) error {
	if _, ok := c.Connections[name]; !ok {
		return fmt.Errorf("connection not found: %s", name)
	}
	delete(c.Connections, name)
	return c.Save()
}
