package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	importPath := filepath.Join(home, "accounts.yaml")
	require.NoError(t, os.WriteFile(importPath, []byte(`accounts:
  - name: acc1
    code: restore-1
    userId: "42"
    username: alice
settings:
  logChannelId: "555"
`), 0o600))

	stdout, stderr, err := runEA(t, binaryPath, home, "account", "import", importPath)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Imported 1 accounts")

	stdout, stderr, err = runEA(t, binaryPath, home, "account", "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "acc1 (alice)")

	_, _, err = runEA(t, binaryPath, home, "run")
	require.Error(t, err)

	stdout, stderr, err = runEA(t, binaryPath, home, "history")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "No runs recorded.")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "ea-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/ea")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build ea binary: %s", string(output))
	return binaryPath
}

func runEA(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "EA_SECRETS_BACKEND=file")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
