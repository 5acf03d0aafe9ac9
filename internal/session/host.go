package session

import (
	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/metrics"
	"github.com/skairipa/hannaterm/internal/vfs"
)

// These operations configure the session from the host program. They bypass
// the login flow and never touch history.

// AddFile creates or overwrites a file.
func (c *Controller) AddFile(p, content string) error {
	if err := c.shell.FS.CreateFile(vfs.Normalize(p), content); err != nil {
		return err
	}
	metrics.SetVFSTreeSize(c.shell.FS.Count())
	return nil
}

// AddDirectory creates a directory.
func (c *Controller) AddDirectory(p string) error {
	if err := c.shell.FS.CreateDirectory(vfs.Normalize(p)); err != nil {
		return err
	}
	metrics.SetVFSTreeSize(c.shell.FS.Count())
	return nil
}

// ListDirectory returns the sorted child names of a directory.
func (c *Controller) ListDirectory(p string) ([]string, error) {
	p = vfs.Normalize(p)
	n, ok := c.shell.FS.Get(p)
	if !ok {
		return nil, &vfs.Error{Op: "list", Path: p, Err: vfs.ErrPathNotFound}
	}
	if !n.IsDir() {
		return nil, &vfs.Error{Op: "list", Path: p, Err: vfs.ErrNotADirectory}
	}
	return n.Names(), nil
}

// ReadFile returns a file's content.
func (c *Controller) ReadFile(p string) (string, error) {
	p = vfs.Normalize(p)
	n, ok := c.shell.FS.Get(p)
	if !ok {
		return "", &vfs.Error{Op: "read", Path: p, Err: vfs.ErrPathNotFound}
	}
	if n.IsDir() {
		return "", &vfs.Error{Op: "read", Path: p, Err: vfs.ErrNotAFile}
	}
	return n.Content, nil
}

// SetUserPassword replaces a stored password hash and unlocks the account.
func (c *Controller) SetUserPassword(username, hash string) error {
	return c.auth.SetUserPassword(username, hash)
}

// SetSharedSecret sets the digest checked by VerifySharedSecret.
func (c *Controller) SetSharedSecret(segments ...string) {
	c.auth.SetSharedSecretHash(segments...)
}

// VerifySharedSecret checks candidate against the shared passphrase digest.
func (c *Controller) VerifySharedSecret(candidate string) bool {
	return c.auth.VerifySharedSecret(candidate)
}

// FailedAttempts returns the failed login count for username.
func (c *Controller) FailedAttempts(username string) int {
	return c.auth.FailedAttempts(username)
}

// LoadFilesystem replaces the tree with a JSON export. The working
// directory falls back to "/" when it no longer exists.
func (c *Controller) LoadFilesystem(data []byte) error {
	if err := c.shell.FS.Import(data); err != nil {
		return err
	}
	if n, ok := c.shell.FS.Get(c.shell.Cwd); !ok || !n.IsDir() {
		c.shell.Cwd = "/"
	}
	count := c.shell.FS.Count()
	metrics.SetVFSTreeSize(count)
	c.logger().Info("filesystem loaded", zap.Int("nodes", count))
	return nil
}

// SaveFilesystem exports the tree as JSON.
func (c *Controller) SaveFilesystem() ([]byte, error) {
	return c.shell.FS.Export()
}
