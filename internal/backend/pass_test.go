package backend

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fakePassScript = `#!/bin/sh
echo "$@" >> %[1]q
echo "store=$PASSWORD_STORE_DIR" >> %[1]q
case "$*" in
  "show locked"|"show -q locked") echo "gpg: decryption failed: No secret key" >&2; exit 2 ;;
  "show missing") echo "Error: missing is not in the password store." >&2; exit 1 ;;
  "show -q "*) echo "QR:$3"; exit 0 ;;
  "show "*) echo "secret for $2"; exit 0 ;;
  "edit unchanged") exit 1 ;;
  "edit broken") exit 3 ;;
esac
exit 0
`

// installFakePass puts a logging pass script first on PATH and returns the
// path of its argument log.
func installFakePass(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake pass script needs a POSIX shell")
	}
	dir := t.TempDir()
	logPath := filepath.Join(dir, "log.txt")
	bin := filepath.Join(dir, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	script := fmt.Sprintf(fakePassScript, logPath)
	require.NoError(t, os.WriteFile(filepath.Join(bin, "pass"), []byte(script), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func quietBackend(storeDir string) *PassCLI {
	return &PassCLI{
		StoreDir: storeDir,
		Stdin:    strings.NewReader(""),
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
}

func TestPassCLIInvokesPassCommands(t *testing.T) {
	logPath := installFakePass(t)
	b := quietBackend("")

	require.NoError(t, b.Edit("foo/bar"))
	require.NoError(t, b.Yank("foo/bar"))
	require.NoError(t, b.Remove("foo/bar", false))
	require.NoError(t, b.Remove("foo", true))
	require.NoError(t, b.Add("new/entry"))

	log := readLog(t, logPath)
	require.Contains(t, log, "edit foo/bar\n")
	require.Contains(t, log, "-c foo/bar\n")
	require.Contains(t, log, "rm -f foo/bar\n")
	require.Contains(t, log, "rm -r -f foo\n")
	require.Contains(t, log, "edit new/entry\n")
}

func TestPassCLIExportsStoreDir(t *testing.T) {
	logPath := installFakePass(t)
	b := quietBackend("/tmp/my-store")

	require.NoError(t, b.Yank("x"))
	require.Contains(t, readLog(t, logPath), "store=/tmp/my-store")
}

func TestPassCLIRevealModes(t *testing.T) {
	logPath := installFakePass(t)
	b := quietBackend("")

	raw, err := b.Reveal("web/github", ModeRaw)
	require.NoError(t, err)
	require.Equal(t, "secret for web/github\n", raw)

	qr, err := b.Reveal("web/github", ModeQR)
	require.NoError(t, err)
	require.Equal(t, "QR:web/github\n", qr)

	log := readLog(t, logPath)
	require.Contains(t, log, "show web/github\n")
	require.Contains(t, log, "show -q web/github\n")
}

func TestPassCLIRevealClassifiesLockFailure(t *testing.T) {
	installFakePass(t)
	b := quietBackend("")

	_, err := b.Reveal("locked", ModeQR)
	require.Error(t, err)
	require.True(t, IsLocked(err))

	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	require.Equal(t, "locked", locked.Key)
	require.Equal(t, ModeQR, locked.Mode)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr), "lock failure keeps the exit detail")
	require.Equal(t, LockedExitCode, cmdErr.Code)
}

func TestPassCLIRevealOtherFailure(t *testing.T) {
	installFakePass(t)
	b := quietBackend("")

	_, err := b.Reveal("missing", ModeRaw)
	require.Error(t, err)
	require.False(t, IsLocked(err))

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, 1, cmdErr.Code)
	require.Equal(t, "pass show failed: exit status 1: Error: missing is not in the password store.", err.Error())
}

func TestPassCLIEditTreatsExitOneAsUnchanged(t *testing.T) {
	installFakePass(t)
	b := quietBackend("")

	require.NoError(t, b.Edit("unchanged"))

	err := b.Edit("broken")
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, 3, cmdErr.Code)
}

func TestPassCLIUnlockRunsInteractiveReveal(t *testing.T) {
	logPath := installFakePass(t)
	b := quietBackend("")

	require.NoError(t, b.Unlock("web/github", ModeQR))
	require.Contains(t, readLog(t, logPath), "show -q web/github\n")

	err := b.Unlock("locked", ModeRaw)
	require.Error(t, err)
}

func TestPassCLIMissingProgram(t *testing.T) {
	b := quietBackend("")
	b.Program = filepath.Join(t.TempDir(), "no-such-pass")

	_, err := b.Reveal("x", ModeRaw)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, -1, cmdErr.Code)
	require.False(t, IsLocked(err))
}

func TestPassCLIMove(t *testing.T) {
	root := t.TempDir()
	writeLeaf := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("cipher"), 0o600))
	}
	writeLeaf("web/github.gpg")
	writeLeaf("web/gitlab.gpg")
	writeLeaf("mail/work.gpg")

	b := &PassCLI{StoreDir: root}

	t.Run("leaf into new directory", func(t *testing.T) {
		require.NoError(t, b.Move("web/github", "code/hosts/github"))
		require.FileExists(t, filepath.Join(root, "code", "hosts", "github.gpg"))
		require.NoFileExists(t, filepath.Join(root, "web", "github.gpg"))
	})

	t.Run("directory", func(t *testing.T) {
		require.NoError(t, b.Move("mail", "email"))
		require.FileExists(t, filepath.Join(root, "email", "work.gpg"))
		require.NoDirExists(t, filepath.Join(root, "mail"))
	})

	t.Run("missing source", func(t *testing.T) {
		err := b.Move("nope", "elsewhere")
		require.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("existing destination", func(t *testing.T) {
		writeLeaf("web/taken.gpg")
		err := b.Move("web/gitlab", "web/taken")
		require.ErrorIs(t, err, ErrDestinationExists)
		require.FileExists(t, filepath.Join(root, "web", "gitlab.gpg"))
	})

	t.Run("destination outside store", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(root), "outside-"+filepath.Base(root))
		for _, to := range []string{"../" + filepath.Base(outside) + "/gitlab", "../x", "", "web/../../y"} {
			err := b.Move("web/gitlab", to)
			require.ErrorIs(t, err, ErrOutsideStore, "move to %q", to)
		}
		require.FileExists(t, filepath.Join(root, "web", "gitlab.gpg"))
		require.NoDirExists(t, outside)
		require.NoFileExists(t, filepath.Join(filepath.Dir(root), "x.gpg"))
	})

	t.Run("source outside store", func(t *testing.T) {
		err := b.Move("../"+filepath.Base(root)+"/web/gitlab", "web/escaped")
		require.NoError(t, err, "a source that resolves back into the store is allowed")
		require.FileExists(t, filepath.Join(root, "web", "escaped.gpg"))

		require.ErrorIs(t, b.Move("..", "web/parent"), ErrOutsideStore)
		require.ErrorIs(t, b.Move("", "web/root"), ErrOutsideStore)
	})

	t.Run("rejected move leaves no directories", func(t *testing.T) {
		err := b.Move("web", "web/nested/web")
		require.Error(t, err)
		require.NoDirExists(t, filepath.Join(root, "web", "nested"))
		require.FileExists(t, filepath.Join(root, "web", "taken.gpg"))
	})
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Op: "pass rm", Code: 1}
	require.Equal(t, "pass rm failed: exit status 1", err.Error())

	err = &CommandError{Op: "pass rm", Code: -1, Err: errors.New("boom")}
	require.Equal(t, "pass rm failed: boom", err.Error())
}
