package shell_test

import (
	"testing"

	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, name string) *shell.Dialect {
	t.Helper()
	d, err := shell.Lookup(name)
	require.NoError(t, err)
	return d
}

func TestLookup_Unknown(t *testing.T) {
	_, err := shell.Lookup("tcsh")
	assert.ErrorIs(t, err, shell.ErrUnknownShell)
}

func TestLookup_AllNames(t *testing.T) {
	for _, name := range shell.Names() {
		d := mustLookup(t, name)
		assert.Equal(t, name, d.Name())
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		shell, profile, target, cd string
	}{
		{"bash", "/home/u/.bashrc", "/home/u/.cdwe.bash", "builtin cd"},
		{"zsh", "/home/u/.zshrc", "/home/u/.cdwe.zsh", "builtin cd"},
		{"fish", "/home/u/.config/fish/config.fish", "/home/u/.cdwe.fish", "cd"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			d := mustLookup(t, tt.shell)
			assert.Equal(t, tt.profile, d.ProfilePath("/home/u"))
			assert.Equal(t, tt.target, d.HookTarget("/home/u"))
			assert.Equal(t, tt.cd, d.DefaultCDCommand())
			assert.Equal(t, "source "+tt.target, d.SourceLine("/home/u"))
		})
	}
}

func TestRender_Bash(t *testing.T) {
	script := mustLookup(t, "bash").Render("/usr/local/bin/cdwe", "")
	assert.Contains(t, script, shell.HookMarker)
	assert.Contains(t, script, `"/usr/local/bin/cdwe" run --old_dir`)
	assert.Contains(t, script, "builtin cd \"$@\"")
	assert.NotContains(t, script, "{{")
}

func TestRender_CustomCDCommand(t *testing.T) {
	script := mustLookup(t, "zsh").Render("cdwe", "z")
	assert.Contains(t, script, "z \"$@\"")
}

func TestRender_Fish(t *testing.T) {
	script := mustLookup(t, "fish").Render("/bin/cdwe", "")
	assert.Contains(t, script, "--on-variable PWD")
	assert.Contains(t, script, "| source")
	assert.NotContains(t, script, "{{")
}

func TestDefineAlias_Posix(t *testing.T) {
	alias := config.EnvAlias{Name: "greet", Commands: []string{"echo hello", "echo bye"}}
	for _, name := range []string{"bash", "zsh"} {
		got := mustLookup(t, name).DefineAlias(alias)
		assert.Equal(t, "greet() {\necho hello\necho bye\n}", got)
	}
}

func TestDefineAlias_Fish(t *testing.T) {
	alias := config.EnvAlias{Name: "greet", Commands: []string{"echo hello"}}
	got := mustLookup(t, "fish").DefineAlias(alias)
	assert.Equal(t, "function greet -d \"cdwe alias greet\"\necho hello\nend", got)
}

func TestDefineAlias_EmptyBody(t *testing.T) {
	alias := config.EnvAlias{Name: "noop"}
	for _, name := range []string{"bash", "zsh"} {
		assert.Equal(t, "noop() {\n:\n}", mustLookup(t, name).DefineAlias(alias))
	}
	assert.Equal(t, "function noop -d \"cdwe alias noop\"\nend", mustLookup(t, "fish").DefineAlias(alias))
}

func TestVariableDirectives(t *testing.T) {
	bash := mustLookup(t, "bash")
	assert.Equal(t, `export FOO="1"`, bash.Export("FOO", "1"))
	assert.Equal(t, "unset FOO", bash.Unset("FOO"))
	assert.Equal(t, "unset -f greet &> /dev/null", bash.UnsetAlias("greet"))

	fish := mustLookup(t, "fish")
	assert.Equal(t, `set -gx FOO "1"`, fish.Export("FOO", "1"))
	assert.Equal(t, "set -e FOO", fish.Unset("FOO"))
	assert.Equal(t, "functions -e greet 2>/dev/null", fish.UnsetAlias("greet"))
}

func TestVariableDirectives_NilDialectIsPosix(t *testing.T) {
	var d *shell.Dialect
	assert.Equal(t, `export FOO="1"`, d.Export("FOO", "1"))
	assert.Equal(t, "unset FOO", d.Unset("FOO"))
	assert.Equal(t, "unset -f greet &> /dev/null", d.UnsetAlias("greet"))
}

func TestHint_EscapesShellText(t *testing.T) {
	got := mustLookup(t, "bash").Hint(`[cdwe] running command: echo "$HOME"`)
	assert.Equal(t, `echo -e "\033[90m[cdwe] running command: echo \"\$HOME\"\033[0m"`, got)
}
