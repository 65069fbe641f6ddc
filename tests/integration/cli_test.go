// CLI integration tests for csvtable.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the csvtable binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "csvtable-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "csvtable")
	SetCSVTableBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/csvtable")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

const peopleCSV = "name,age\nalice,30\nbob,25\n"

func TestVersionAndInit(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRun("version")
	assert.Contains(t, result.Stdout, "csvtable v")

	result = env.MustRun("init")
	assert.Contains(t, result.Stdout, "config.yaml")
	_, err := os.Stat(filepath.Join(env.Config, "config.yaml"))
	assert.NoError(t, err)
}

// TestTableLifecycle edits one file through a sequence of in-place
// mutations and checks the file after each step.
func TestTableLifecycle(t *testing.T) {
	env := NewTestEnv(t)
	path := env.WriteFile("people.csv", peopleCSV)

	steps := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "add city column",
			args: []string{"add-column", path, "city", "--in-place"},
			want: "name,age,city\nalice,30,\nbob,25,\n",
		},
		{
			name: "set alice's city",
			args: []string{"set-cell", path, "city", "0", "Paris", "--in-place"},
			want: "name,age,city\nalice,30,Paris\nbob,25,\n",
		},
		{
			name: "insert eve",
			args: []string{"insert-row", path, "1", "name=eve", "age=41", "city=Rome", "--in-place"},
			want: "name,age,city\nalice,30,Paris\neve,41,Rome\nbob,25,\n",
		},
		{
			name: "delete bob",
			args: []string{"delete-row", path, "2", "--in-place"},
			want: "name,age,city\nalice,30,Paris\neve,41,Rome\n",
		},
		{
			name: "rename age",
			args: []string{"rename-column", path, "age", "years", "--in-place"},
			want: "name,years,city\nalice,30,Paris\neve,41,Rome\n",
		},
		{
			name: "update eve",
			args: []string{"update-row", path, "1", "city=Oslo, NO", "--in-place"},
			want: "name,years,city\nalice,30,Paris\neve,41,\"Oslo, NO\"\n",
		},
		{
			name: "drop last row",
			args: []string{"delete-row", path, "--last", "--in-place"},
			want: "name,years,city\nalice,30,Paris\n",
		},
	}

	for _, step := range steps {
		result := env.Run(step.args...)
		require.Equal(t, 0, result.ExitCode, "%s: %s", step.name, result.Stderr)
		assert.Equal(t, step.want, env.ReadFile("people.csv"), step.name)
	}
}

func TestQueriesOverStdin(t *testing.T) {
	env := NewTestEnv(t)

	result := env.RunCSVTable(peopleCSV, nil, "--json", "show", "-")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	rows := ParseJSON[[]map[string]string](t, result.Stdout)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0]["name"])

	result = env.RunCSVTable(peopleCSV, nil, "--json", "headers", "-")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.Equal(t, []string{"name", "age"}, ParseJSON[[]string](t, result.Stdout))

	result = env.RunCSVTable(peopleCSV, nil, "find", "-", "name", "bob")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.Equal(t, "{name:bob, age:25}\n", result.Stdout)
}

func TestBOMAndCRLFInput(t *testing.T) {
	env := NewTestEnv(t)
	path := env.WriteFile("win.csv", "\xef\xbb\xbfname,age\r\nalice,30\r\n")

	result := env.MustRun("headers", path)
	assert.Equal(t, "name\nage\n", result.Stdout)

	result = env.MustRun("--crlf", "show", path)
	assert.Equal(t, "name,age\r\nalice,30\r\n", result.Stdout)
}

func TestConfigurationLoading(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteConfig("delimiter: ';'\nquoting: all\n")
	path := env.WriteFile("semi.csv", "a;b\n1;2\n")

	result := env.MustRun("show", path)
	assert.Equal(t, "\"a\";\"b\"\n\"1\";\"2\"\n", result.Stdout, "config file applies")

	result = env.RunCSVTable("", []string{"CSVTABLE_QUOTING=none"}, "show", path)
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.Equal(t, "a;b\n1;2\n", result.Stdout, "env overrides config file")

	result = env.RunCSVTable("", []string{"CSVTABLE_QUOTING=none"}, "--quoting", "minimal", "show", path)
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.Equal(t, "a;b\n1;2\n", result.Stdout, "flag overrides env")
}

func TestDotEnvFile(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteFile(".env", "CSVTABLE_DELIMITER=|\n")
	path := env.WriteFile("pipe.csv", "a|b\n1|2\n")

	result := env.MustRun("headers", path)
	assert.Equal(t, "a\nb\n", result.Stdout)
}

func TestFillUUIDColumn(t *testing.T) {
	env := NewTestEnv(t)
	path := env.WriteFile("people.csv", peopleCSV)

	env.MustRun("add-column", path, "id", "--fill", "uuid", "--in-place")
	result := env.MustRun("--json", "column", path, "id")
	ids := ParseJSON[[]string](t, result.Stdout)
	require.Len(t, ids, 2)
	for _, s := range ids {
		id, err := uuid.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
	}
}

func TestExitCodes(t *testing.T) {
	env := NewTestEnv(t)
	bad := env.WriteFile("bad.csv", "a,b\n1,2,3\n")
	good := env.WriteFile("good.csv", peopleCSV)

	result := env.Run("show", bad)
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "line 1")

	result = env.Run("show", filepath.Join(env.WorkDir, "missing.csv"))
	assert.Equal(t, 2, result.ExitCode)

	result = env.Run("row", good, "5")
	assert.Equal(t, 1, result.ExitCode)
	assert.True(t, strings.Contains(result.Stderr, "out of range"), result.Stderr)

	result = env.Run("convert-column", good, "name", "integer", "--in-place")
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, peopleCSV, env.ReadFile("good.csv"), "failed mutation must not write")
}
