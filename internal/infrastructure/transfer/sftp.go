package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/gabriel-softon/transfer-dtec-file/internal/logging"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// Options carry the deployment transport settings for the publication
// host.
type Options struct {
	Host    string
	Port    int
	User    string
	KeyFile string
	// KnownHostsFile pins the host key; when empty the host key is not
	// verified, matching the legacy transfer setup.
	KnownHostsFile string
}

// Channel implements the transfer channel over key-authenticated SFTP.
// Directory creation and copies are idempotent: existing directories
// are fine and files whose remote size already matches are skipped.
type Channel struct {
	conn   *ssh.Client
	client *sftp.Client
	logger *slog.Logger
}

var _ ports.TransferChannel = (*Channel)(nil)

// Dial opens the SSH connection and the SFTP subsystem on top of it.
// One connection serves the whole run, so the per-record cost is bound
// to file traffic, not session setup.
func Dial(opts Options, logger *slog.Logger) (*Channel, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	key, err := os.ReadFile(opts.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("read private key %s: %w", opts.KeyFile, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if opts.KnownHostsFile != "" {
		hostKeyCallback, err = knownhosts.New(opts.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("load known hosts %s: %w", opts.KnownHostsFile, err)
		}
	}

	cfg := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         15 * time.Second,
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	conn, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open sftp subsystem: %w", err)
	}

	return &Channel{conn: conn, client: client, logger: logger}, nil
}

// MkdirAll creates the remote directory and any missing parents.
func (c *Channel) MkdirAll(ctx context.Context, remoteDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.client.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("mkdir %s: %w", remoteDir, err)
	}
	return nil
}

// Copy sends every local path (file or directory) under remoteDir in
// one batched session. Files already present with the same size are
// skipped, so rerunning a transfer never duplicates data.
func (c *Channel) Copy(ctx context.Context, localPaths []string, remoteDir string) error {
	for _, local := range localPaths {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(local)
		if err != nil {
			return fmt.Errorf("stat %s: %w", local, err)
		}

		dest := path.Join(remoteDir, filepath.Base(local))
		if info.IsDir() {
			err = c.copyDir(ctx, local, dest)
		} else {
			err = c.copyFile(local, dest, info.Size())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Channel) copyDir(ctx context.Context, localDir, remoteDir string) error {
	if err := c.client.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("mkdir %s: %w", remoteDir, err)
	}

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", localDir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		local := filepath.Join(localDir, entry.Name())
		dest := path.Join(remoteDir, entry.Name())
		if entry.IsDir() {
			err = c.copyDir(ctx, local, dest)
		} else {
			info, infoErr := entry.Info()
			if infoErr != nil {
				return fmt.Errorf("stat %s: %w", local, infoErr)
			}
			err = c.copyFile(local, dest, info.Size())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Channel) copyFile(local, remote string, size int64) error {
	if existing, err := c.client.Stat(remote); err == nil && !existing.IsDir() && existing.Size() == size {
		c.logger.Debug("remote file unchanged, skipping", "path", remote)
		return nil
	}

	src, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("open %s: %w", local, err)
	}
	defer src.Close()

	dst, err := c.client.Create(remote)
	if err != nil {
		return fmt.Errorf("create %s: %w", remote, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", remote, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", remote, err)
	}
	return nil
}

// List returns the entry names of a remote directory.
func (c *Channel) List(ctx context.Context, remoteDir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := c.client.ReadDir(remoteDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", remoteDir, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

// Close tears down the SFTP session and the SSH connection.
func (c *Channel) Close() error {
	if err := c.client.Close(); err != nil {
		c.conn.Close()
		return fmt.Errorf("close sftp client: %w", err)
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("close ssh connection: %w", err)
	}
	return nil
}
