// Package ssh executes commands and pushes files on fleet instances over
// the SSH protocol.
package ssh

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/fleetadm/fleetadm/internal/util/retry"
)

// Runner is the remote execution surface the workflows need. Hosts are
// addressed by IP, as returned at instance creation.
type Runner interface {
	// Run executes a command on the host and returns its combined output.
	// It handles connection establishment and dial retries.
	Run(ctx context.Context, host, command string) (string, error)
	// Push writes content to a path on the host.
	Push(ctx context.Context, host, remotePath string, content []byte) error
}

const (
	dialTimeout  = 10 * time.Second
	dialAttempts = 9
	dialBackoff  = 5 * time.Second
)

// KeyRunner implements Runner with public-key authentication.
type KeyRunner struct {
	user       string
	privateKey []byte
}

var _ Runner = (*KeyRunner)(nil)

// NewKeyRunner creates a runner that logs in as user with the given PEM
// private key.
func NewKeyRunner(user string, privateKey []byte) *KeyRunner {
	return &KeyRunner{user: user, privateKey: privateKey}
}

// Run implements Runner.
func (r *KeyRunner) Run(ctx context.Context, host, command string) (string, error) {
	client, err := r.dial(ctx, host)
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("failed to execute command: %w, output: %s", err, output)
	}
	return string(output), nil
}

// Push implements Runner. The content is streamed through stdin of a
// remote cat, so no scratch file is needed on either side.
func (r *KeyRunner) Push(ctx context.Context, host, remotePath string, content []byte) error {
	client, err := r.dial(ctx, host)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	session.Stdin = bytes.NewReader(content)
	if output, err := session.CombinedOutput(fmt.Sprintf("cat > %q", remotePath)); err != nil {
		return fmt.Errorf("failed to write %s: %w, output: %s", remotePath, err, output)
	}
	return nil
}

func (r *KeyRunner) dial(ctx context.Context, host string) (*ssh.Client, error) {
	signer, err := ssh.ParsePrivateKey(r.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User:            r.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // fresh instances have no known host key
		Timeout:         dialTimeout,
	}

	// Instances accept connections a little while after creation reports
	// success, so dial failures are retried with backoff.
	var client *ssh.Client
	err = retry.WithExponentialBackoff(ctx, func() error {
		client, err = ssh.Dial("tcp", host+":22", config)
		return err
	}, retry.WithMaxRetries(dialAttempts), retry.WithInitialDelay(dialBackoff), retry.WithMaxDelay(dialBackoff))
	if err != nil {
		return nil, fmt.Errorf("failed to dial ssh: %w", err)
	}
	return client, nil
}
