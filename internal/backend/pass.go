package backend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/treykane/pass-tui/internal/config"
	"github.com/treykane/pass-tui/internal/logging"
	"github.com/treykane/pass-tui/internal/store"
)

var passLog = logging.New("backend")

// PassCLI drives the pass command. The zero value uses "pass" from PATH and
// the store pass itself would pick.
type PassCLI struct {
	// StoreDir is exported to pass as PASSWORD_STORE_DIR when set.
	StoreDir string
	// Program overrides the executable name.
	Program string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var _ Backend = (*PassCLI)(nil)

func (p *PassCLI) command(args ...string) *exec.Cmd {
	program := p.Program
	if program == "" {
		program = "pass"
	}
	cmd := exec.Command(program, args...)
	if p.StoreDir != "" {
		cmd.Env = append(os.Environ(), config.EnvStoreDir+"="+p.StoreDir)
	}
	return cmd
}

// StoreRoot is the directory Move operates on.
func (p *PassCLI) StoreRoot() (string, error) {
	if p.StoreDir != "" {
		return p.StoreDir, nil
	}
	return config.DefaultStoreDir()
}

func revealArgs(key string, mode Mode) (string, []string) {
	if mode == ModeQR {
		return "pass show -q", []string{"show", "-q", key}
	}
	return "pass show", []string{"show", key}
}

func (p *PassCLI) Reveal(key string, mode Mode) (string, error) {
	op, args := revealArgs(key, mode)
	cmd := p.command(args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	cmdErr := commandError(op, err, stderr.String())
	if cmdErr.Code == LockedExitCode {
		passLog.Info("key material locked", "key", key, "mode", mode)
		return "", &LockedError{Key: key, Mode: mode, Err: cmdErr}
	}
	passLog.Warn("reveal failed", "key", key, "mode", mode, "error", cmdErr)
	return "", cmdErr
}

// Unlock repeats the reveal with the terminal attached so gpg can prompt.
// The decrypted output is discarded.
func (p *PassCLI) Unlock(key string, mode Mode) error {
	op, args := revealArgs(key, mode)
	cmd := p.command(args...)
	cmd.Stdin = p.stdin()
	cmd.Stdout = io.Discard
	cmd.Stderr = p.stderr()
	if err := cmd.Run(); err != nil {
		return commandError(op, err, "")
	}
	return nil
}

// Add opens the editor on a new entry; pass edit creates missing files.
func (p *PassCLI) Add(key string) error {
	return p.edit(key)
}

func (p *PassCLI) Edit(key string) error {
	return p.edit(key)
}

func (p *PassCLI) edit(key string) error {
	cmd := p.command("edit", key)
	cmd.Stdin = p.stdin()
	cmd.Stdout = p.stdout()
	cmd.Stderr = p.stderr()
	err := cmd.Run()
	if err == nil {
		return nil
	}
	cmdErr := commandError("pass edit", err, "")
	// pass edit exits 1 when the editor left the content unchanged.
	if cmdErr.Code == 1 {
		passLog.Debug("edit made no change", "key", key)
		return nil
	}
	return cmdErr
}

func (p *PassCLI) Remove(key string, recursive bool) error {
	args := []string{"rm"}
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, "-f", key)
	return p.quiet("pass rm", args...)
}

func (p *PassCLI) Yank(key string) error {
	return p.quiet("pass -c", "-c", key)
}

func (p *PassCLI) quiet(op string, args ...string) error {
	cmd := p.command(args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return commandError(op, err, stderr.String())
	}
	return nil
}

// Move renames a directory or leaf on disk. Missing parents of the
// destination are created; an existing destination is never replaced.
func (p *PassCLI) Move(from, to string) error {
	root, err := p.StoreRoot()
	if err != nil {
		return err
	}

	if !below(root, store.DirPath(root, from)) {
		return fmt.Errorf("%w: %s", ErrOutsideStore, from)
	}
	src, isDir, err := resolveSource(root, from)
	if err != nil {
		return err
	}
	dst := store.LeafPath(root, to)
	if isDir {
		dst = store.DirPath(root, to)
	}
	if !below(root, dst) {
		return fmt.Errorf("%w: %s", ErrOutsideStore, to)
	}
	if isDir && below(src, dst) {
		return fmt.Errorf("move %s into itself", from)
	}

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, to)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
		return fmt.Errorf("create destination parent: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}
	passLog.Info("moved entry", "from", from, "to", to, "dir", isDir)
	return nil
}

// below reports whether path lies strictly below base.
func below(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func resolveSource(root, key string) (string, bool, error) {
	dir := store.DirPath(root, key)
	if info, err := os.Stat(dir); err == nil && info.IsDir() && key != "" {
		return dir, true, nil
	}
	file := store.LeafPath(root, key)
	if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
		return file, false, nil
	}
	return "", false, fmt.Errorf("%w: %s", ErrSourceNotFound, key)
}

func (p *PassCLI) stdin() io.Reader {
	if p.Stdin != nil {
		return p.Stdin
	}
	return os.Stdin
}

func (p *PassCLI) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func (p *PassCLI) stderr() io.Writer {
	if p.Stderr != nil {
		return p.Stderr
	}
	return os.Stderr
}

func commandError(op string, err error, stderr string) *CommandError {
	cmdErr := &CommandError{Op: op, Code: -1, Detail: firstLine(stderr), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.Code = exitErr.ExitCode()
	}
	return cmdErr
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	return strings.TrimSpace(lines[0])
}
