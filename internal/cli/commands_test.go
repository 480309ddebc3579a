package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/cli"
	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/resolver"
	"github.com/hbjs97/cdwe/internal/setup"
	"github.com/hbjs97/cdwe/internal/shell"
	"github.com/hbjs97/cdwe/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const projConfig = testutil.NoHints + `
[[directory]]
path = "/proj"
vars = { FOO = "1", API_TOKEN = "secret" }
run = ["echo hi"]

[[directory.aliases]]
name = "greet"
commands = ["echo hello"]
`

// stubFormRunner는 테스트용 FormRunner다.
type stubFormRunner struct {
	shell   string
	confirm bool
}

func (s *stubFormRunner) RunShellSelect(shells []string) (string, error) { return s.shell, nil }
func (s *stubFormRunner) RunConfirm(message string) (bool, error)        { return s.confirm, nil }

// newTestApp creates an App rooted at a temp home with the given global config content.
// An empty content leaves the config file absent.
func newTestApp(t *testing.T, content string) *cli.App {
	t.Helper()
	home := t.TempDir()
	cfgPath := filepath.Join(home, "cdwe.toml")
	if content != "" {
		testutil.WriteFile(t, home, "cdwe.toml", content)
	}
	return &cli.App{
		Home:       home,
		CfgPath:    cfgPath,
		CachePath:  filepath.Join(home, ".cdwe_cache.json"),
		ExecPath:   "/usr/local/bin/cdwe",
		Env:        resolver.MapEnv{},
		Scheduler:  cache.Inline{},
		FormRunner: &stubFormRunner{shell: "bash", confirm: true},
		Log:        zap.NewNop(),
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()
	cmd := app.NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// --- run command tests ---

func TestRunCmd_EnterDirectory(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`export API_TOKEN="secret"`,
		`export FOO="1"`,
		"echo hi",
		"greet() {\necho hello\n}",
	}, "\n")+"\n", out)
}

func TestRunCmd_SubdirectorySkipsRun(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	out, err := execute(t, app, "run", "--old_dir", "/proj", "--new_dir", "/proj/sub")
	require.NoError(t, err)
	assert.NotContains(t, out, "echo hi")
	assert.NotContains(t, out, "unset")
	assert.Contains(t, out, `export FOO="1"`)
}

func TestRunCmd_NothingToDo(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/var")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunCmd_WritesCache(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	_, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.NoError(t, err)

	c, err := cache.Decode(cache.ReadFile(app.CachePath))
	require.NoError(t, err)
	assert.Equal(t, cache.ContentHash(projConfig), c.Hash)
	assert.Equal(t, "bash", c.Shell)
	assert.Contains(t, c.Values, "/proj")
}

// heldScheduler는 예약된 작업을 실행하지 않고 보관한다.
type heldScheduler struct {
	jobs []func()
}

func (h *heldScheduler) Schedule(fn func()) { h.jobs = append(h.jobs, fn) }

func TestRunCmd_DoesNotWaitForCacheWrite(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)
	held := &heldScheduler{}
	app.Scheduler = held

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.NoError(t, err)
	assert.Contains(t, out, `export FOO="1"`)
	require.Len(t, held.jobs, 1)
	assert.NoFileExists(t, app.CachePath)

	held.jobs[0]()
	assert.FileExists(t, app.CachePath)
}

func TestRunCmd_UsesFreshCache(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	c := cache.New("bash", cache.ContentHash(projConfig))
	c.Values["/proj"] = cache.DirCache{Variables: []config.EnvVariable{{Name: "FOO", Value: "cached"}}}
	require.NoError(t, c.Save(app.CachePath))

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.NoError(t, err)
	assert.Equal(t, "export FOO=\"cached\"\n", out)
}

func TestRunCmd_StaleCacheIsRebuilt(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	c := cache.New("bash", "stale")
	c.Values["/proj"] = cache.DirCache{Variables: []config.EnvVariable{{Name: "FOO", Value: "cached"}}}
	require.NoError(t, c.Save(app.CachePath))

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.NoError(t, err)
	assert.Contains(t, out, `export FOO="1"`)
	assert.NotContains(t, out, "cached")
}

func TestRunCmd_MissingConfig(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrConfig)
	assert.Equal(t, cli.ExitConfigError, cli.MapExitCode(err))
	assert.Empty(t, out)
}

func TestRunCmd_MalformedImportFile(t *testing.T) {
	t.Parallel()
	proj := t.TempDir()
	testutil.WriteFile(t, proj, ".env", "A=1\nbroken\n")
	app := newTestApp(t, testutil.NoHints+fmt.Sprintf(`
[[directory]]
path = %q
vars = { OK = "1" }
load_from = [".env"]
`, proj))

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", proj)
	require.Error(t, err)
	assert.Equal(t, cli.ExitEnvFileError, cli.MapExitCode(err))
	assert.Empty(t, out)
}

func TestRunCmd_UnknownShellWithAlias(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, strings.Replace(projConfig, `shell = "bash"`, `shell = "tcsh"`, 1))

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.Error(t, err)
	assert.Equal(t, cli.ExitShellError, cli.MapExitCode(err))
	assert.Empty(t, out)
}

func TestRunCmd_LocalOverlay(t *testing.T) {
	t.Parallel()
	proj := t.TempDir()
	testutil.WriteFile(t, proj, "cdwe.toml", "variables = { LOCAL = \"x\" }\ncommands = [\"echo local\"]\n")
	app := newTestApp(t, testutil.NoHints)

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", proj)
	require.NoError(t, err)
	assert.Equal(t, "export LOCAL=\"x\"\necho local\n", out)

	out, err = execute(t, app, "run", "--old_dir", proj, "--new_dir", "/tmp")
	require.NoError(t, err)
	assert.Equal(t, "unset LOCAL\n", out)
}

func TestRunCmd_GlobalConfigIsNotAnOverlay(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "commands = [\"echo global-file\"]\n"+testutil.NoHints)

	out, err := execute(t, app, "run", "--old_dir", "/tmp", "--new_dir", app.Home)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunCmd_RequiresBothDirs(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	_, err := execute(t, app, "run", "--old_dir", "/tmp")
	assert.Error(t, err)
}

func TestRunCmd_ConfigFlag(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")
	other := testutil.TempConfigFile(t, projConfig)

	out, err := execute(t, app, "--config", other, "run", "--old_dir", "/tmp", "--new_dir", "/proj")
	require.NoError(t, err)
	assert.Contains(t, out, `export FOO="1"`)
}

// --- init / reload / remove tests ---

func TestInitCmd_ExplicitShell(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")

	out, err := execute(t, app, "init", "zsh")
	require.NoError(t, err)

	d, err := shell.Lookup("zsh")
	require.NoError(t, err)
	assert.True(t, setup.HookInstalled(d, app.Home))
	assert.Contains(t, out, d.HookTarget(app.Home))

	cfg, _, err := config.Load(app.CfgPath)
	require.NoError(t, err)
	assert.Equal(t, "zsh", cfg.Settings().Shell)

	script, err := os.ReadFile(d.HookTarget(app.Home))
	require.NoError(t, err)
	assert.Contains(t, string(script), `"/usr/local/bin/cdwe" run`)
}

func TestInitCmd_UnknownShell(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")

	_, err := execute(t, app, "init", "tcsh")
	require.Error(t, err)
	assert.Equal(t, cli.ExitShellError, cli.MapExitCode(err))
}

func TestReloadCmd_UsesConfiguredCDCommand(t *testing.T) {
	t.Parallel()
	content := "[config]\nshell = \"bash\"\ncd_command = \"z\"\n\n[[directory]]\npath = \"/proj\"\n"
	app := newTestApp(t, content)

	out, err := execute(t, app, "reload")
	require.NoError(t, err)
	assert.Contains(t, out, "캐시를 재생성했습니다")

	d, err := shell.Lookup("bash")
	require.NoError(t, err)
	script, err := os.ReadFile(d.HookTarget(app.Home))
	require.NoError(t, err)
	assert.Contains(t, string(script), "z \"$@\"")

	c, err := cache.Decode(cache.ReadFile(app.CachePath))
	require.NoError(t, err)
	assert.Equal(t, cache.ContentHash(content), c.Hash)
	assert.Contains(t, c.Values, "/proj")
}

func TestReloadCmd_BadConfig(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "[[directory]]\nrun = [\"x\"]\n")

	_, err := execute(t, app, "reload", "bash")
	assert.ErrorIs(t, err, cli.ErrConfig)
}

func TestRemoveCmd_Yes(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")
	app.FormRunner = &stubFormRunner{confirm: false}

	_, err := execute(t, app, "init", "fish")
	require.NoError(t, err)
	_, err = execute(t, app, "remove", "--yes", "fish")
	require.NoError(t, err)

	d, err := shell.Lookup("fish")
	require.NoError(t, err)
	assert.False(t, setup.HookInstalled(d, app.Home))
}

func TestRemoveCmd_Declined(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")
	app.FormRunner = &stubFormRunner{confirm: false}

	_, err := execute(t, app, "init", "bash")
	require.NoError(t, err)
	_, err = execute(t, app, "remove", "bash")
	require.NoError(t, err)

	d, err := shell.Lookup("bash")
	require.NoError(t, err)
	assert.True(t, setup.HookInstalled(d, app.Home))
}

// --- show command tests ---

func TestShowCmd_MasksSecrets(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	out, err := execute(t, app, "show", "/proj/sub")
	require.NoError(t, err)
	assert.Contains(t, out, "/proj/sub")
	assert.Contains(t, out, "FOO=1")
	assert.Contains(t, out, "API_TOKEN=****")
	assert.Contains(t, out, "greet: echo hello")
	assert.NotContains(t, out, "echo hi")
}

func TestShowCmd_Reveal(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	out, err := execute(t, app, "show", "--reveal", "/proj")
	require.NoError(t, err)
	assert.Contains(t, out, "API_TOKEN=secret")
	assert.Contains(t, out, "echo hi")
}

func TestShowCmd_NothingApplies(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, projConfig)

	out, err := execute(t, app, "show", "/elsewhere")
	require.NoError(t, err)
	assert.Contains(t, out, "적용되는 설정 없음")
}

// --- doctor command tests ---

func TestDoctorCmd_NoConfig(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")

	out, err := execute(t, app, "doctor")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrDoctorFailed)
	assert.Equal(t, cli.ExitGeneral, cli.MapExitCode(err))
	assert.Contains(t, out, "config")
	assert.Contains(t, out, "cdwe init")
}

func TestDoctorCmd_Healthy(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")

	_, err := execute(t, app, "init", "bash")
	require.NoError(t, err)
	_, err = execute(t, app, "reload")
	require.NoError(t, err)

	out, err := execute(t, app, "doctor")
	require.NoError(t, err)
	assert.NotContains(t, out, "FAIL")
}

// --- root / exit code tests ---

func TestRootCmd_VerboseFlag(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "")

	_, err := execute(t, app, "--verbose", "--help")
	require.NoError(t, err)
}

func TestMapExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want cli.ExitCode
	}{
		{"nil", nil, cli.ExitSuccess},
		{"config", fmt.Errorf("x: %w", cli.ErrConfig), cli.ExitConfigError},
		{"home", fmt.Errorf("x: %w", cli.ErrNoHome), cli.ExitEnvError},
		{"env file", fmt.Errorf("x: %w", cli.ErrMalformedEnvFile), cli.ExitEnvFileError},
		{"shell", fmt.Errorf("x: %w", cli.ErrUnknownShell), cli.ExitShellError},
		{"other", errors.New("boom"), cli.ExitGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.MapExitCode(tt.err))
		})
	}
}

func TestNewApp(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	app, err := cli.NewApp()
	require.NoError(t, err)
	assert.Equal(t, home, app.Home)
	assert.Equal(t, filepath.Join(home, "cdwe.toml"), app.CfgPath)
	assert.Equal(t, filepath.Join(home, ".cdwe_cache.json"), app.CachePath)
	assert.NotNil(t, app.FormRunner)
}

func TestNewApp_NoHome(t *testing.T) {
	t.Setenv("HOME", "")

	_, err := cli.NewApp()
	assert.ErrorIs(t, err, cli.ErrNoHome)
	assert.Equal(t, cli.ExitEnvError, cli.MapExitCode(err))
}
