package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv points HOME and XDG dirs at a temp dir and writes an offline
// config backed by a JSON store there.
func testEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("TRAIL_TOKEN", "")
	t.Setenv("TRAIL_STORE", "")
	t.Setenv("TRAIL_API_URL", "")

	cfg := filepath.Join(dir, "trail.yaml")
	content := "api:\n  offline: true\nstore:\n  backend: json\n  path: " + filepath.Join(dir, "store") + "\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o644))
	return []string{"--config", cfg, "--theme", "mono"}
}

func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCrumbs(t *testing.T) {
	code, out, _ := execute(t, "", "crumbs", "users#posts#comments#42")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "1. users")
	assert.Contains(t, out, "> 4. Post 42 Comments")
}

func TestCrumbs_InvalidFallsBack(t *testing.T) {
	code, out, _ := execute(t, "", "crumbs", "users#nope")
	require.Equal(t, 0, code)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "> 1. users")
}

func TestUsageErrorsExit2(t *testing.T) {
	code, _, errOut := execute(t, "", "crumbs")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage")

	code, _, _ = execute(t, "", "show", "--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, _ = execute(t, "", "todo", "add", "abc", "title")
	assert.Equal(t, 2, code)
}

func TestShow(t *testing.T) {
	base := testEnv(t)

	code, out, errOut := execute(t, "", append(base, "show", "users#todos#2")...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Todos for Ervin Howell")
	assert.Contains(t, out, "fugiat veniam minus")

	// Without a path, the last visited one is shown again.
	code, out, _ = execute(t, "", append(base, "show")...)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Todos for Ervin Howell")

	code, out, _ = execute(t, "", append(base, "--search", "GARDNER", "show", "users#posts#comments#1")...)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Eliseo@gardner.biz")
	assert.NotContains(t, out, "Jayne_Kuhic")
}

func TestUserAndTodoLifecycle(t *testing.T) {
	base := testEnv(t)

	code, out, errOut := execute(t, "", append(base, "user", "add", "--name", "Zed", "--email", "zed@example.com")...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "user added: Zed")

	code, out, _ = execute(t, "", append(base, "todo", "toggle", "1", "1")...)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "completed")

	code, out, _ = execute(t, "", append(base, "show", "users#todos#1")...)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "1/3")

	code, _, errOut = execute(t, "", append(base, "user", "rm", "1", "--yes")...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "only locally created records can be deleted")
}

func TestUserRmAcceptsPaddedID(t *testing.T) {
	base := testEnv(t)
	code, out, errOut := execute(t, "", append(base, "user", "add", "--name", "Zed", "--email", "zed@example.com")...)
	require.Equal(t, 0, code, errOut)
	_, rest, found := strings.Cut(out, "(id ")
	require.True(t, found, out)
	id, _, _ := strings.Cut(rest, ")")

	code, out, errOut = execute(t, "", append(base, "user", "rm", "00"+id, "--yes")...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "user deleted")
}

func TestParseID(t *testing.T) {
	assert.Equal(t, "7", parseID("007").String())
	assert.Equal(t, "7", parseID(" 7 ").String())
	assert.Equal(t, "custom_x", parseID("custom_x").String())
}

func TestTodoRmDeclined(t *testing.T) {
	base := testEnv(t)
	code, out, _ := execute(t, "n\n", append(base, "todo", "rm", "custom_x")...)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "cancelled")
}

func TestAuthFlow(t *testing.T) {
	testEnv(t)

	code, out, _ := execute(t, "", "auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not logged in")

	code, _, _ = execute(t, "secret-token\n", "auth", "login", "--ttl", "1h")
	require.Equal(t, 0, code)

	code, out, _ = execute(t, "", "auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "source: file")

	code, _, _ = execute(t, "", "auth", "logout")
	require.Equal(t, 0, code)
	_, out, _ = execute(t, "", "auth", "status")
	assert.Contains(t, out, "not logged in")
}
