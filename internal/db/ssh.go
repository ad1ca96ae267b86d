package db

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// SSHConfig holds SSH connection details
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string
	UseAgent bool
}

// SSHTunnel is a live SSH client that database drivers dial through.
type SSHTunnel struct {
	client *ssh.Client
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func sshAuthMethods(config *SSHConfig) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if config.KeyPath != "" {
		keyPath := expandHome(config.KeyPath)
		key, err := os.ReadFile(keyPath)
		if err != nil {
			slog.Warn("ssh: read private key", "path", keyPath, "err", err)
		} else {
			signer, err := ssh.ParsePrivateKey(key)
			if err != nil && config.Password != "" {
				signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(config.Password))
			}
			if err != nil {
				slog.Warn("ssh: parse private key", "path", keyPath, "err", err)
			} else {
				slog.Debug("ssh: loaded private key", "type", signer.PublicKey().Type())
				methods = append(methods, ssh.PublicKeys(signer))
			}
		}
	}

	if config.UseAgent || config.KeyPath == "" {
		if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
			conn, err := net.Dial("unix", socket)
			if err != nil {
				slog.Warn("ssh: dial agent", "err", err)
			} else {
				methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
			}
		}
	}

	if config.Password != "" {
		methods = append(methods, ssh.Password(config.Password))
		// some servers only offer keyboard-interactive
		methods = append(methods, ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
			answers := make([]string, len(questions))
			for i := range answers {
				answers[i] = config.Password
			}
			return answers, nil
		}))
	}
	return methods
}

// NewSSHTunnel establishes an SSH connection
func NewSSHTunnel(config *SSHConfig) (*SSHTunnel, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SSH host is required")
	}

	methods := sshAuthMethods(config)
	if len(methods) == 0 {
		return nil, fmt.Errorf("no valid SSH authentication methods found")
	}

	port := config.Port
	if port == 0 {
		port = 22
	}

	cliConfig := &ssh.ClientConfig{
		User:            config.User,
		Auth:            methods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         15 * time.Second,
		HostKeyAlgorithms: []string{
			ssh.KeyAlgoED25519,
			ssh.KeyAlgoRSASHA512,
			ssh.KeyAlgoRSASHA256,
			ssh.KeyAlgoRSA,
			ssh.KeyAlgoECDSA256,
			ssh.KeyAlgoECDSA384,
			ssh.KeyAlgoECDSA521,
		},
	}

	address := net.JoinHostPort(config.Host, strconv.Itoa(port))
	slog.Debug("ssh: dialing", "addr", address, "user", config.User, "methods", len(methods))
	client, err := ssh.Dial("tcp", address, cliConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	return &SSHTunnel{client: client}, nil
}

// Dial connects to a remote address through the tunnel
func (t *SSHTunnel) Dial(network, addr string) (net.Conn, error) {
	return t.client.Dial(network, addr)
}

// DialContext connects to a remote address through the tunnel with context support
func (t *SSHTunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		conn, err := t.client.Dial(network, addr)
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		// close a late connection so it does not leak
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-ch:
		return res.conn, res.err
	}
}

// Close closes the SSH connection
func (t *SSHTunnel) Close() error {
	return t.client.Close()
}
