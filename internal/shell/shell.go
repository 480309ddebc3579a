package shell

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hbjs97/cdwe/internal/config"
)

//go:embed hooks/*
var hooks embed.FS

// ErrUnknownShell은 bash, zsh, fish 이외의 셸 이름에 대한 sentinel error다.
var ErrUnknownShell = errors.New("지원하지 않는 셸")

// HookMarker는 hook 스크립트 첫 줄에 들어가는 식별 문자열이다.
const HookMarker = "cdwe shell integration"

// Dialect는 하나의 셸 문법이다.
// 변수 관련 메서드는 nil Dialect에서 POSIX(bash) 문법을 쓴다.
type Dialect struct {
	name       string
	profile    []string // $HOME 기준
	hookTarget string   // $HOME 기준
	defaultCD  string
}

var dialects = map[string]*Dialect{
	"bash": {name: "bash", profile: []string{".bashrc"}, hookTarget: ".cdwe.bash", defaultCD: "builtin cd"},
	"zsh":  {name: "zsh", profile: []string{".zshrc"}, hookTarget: ".cdwe.zsh", defaultCD: "builtin cd"},
	"fish": {name: "fish", profile: []string{".config", "fish", "config.fish"}, hookTarget: ".cdwe.fish", defaultCD: "cd"},
}

// Names는 지원하는 셸 이름 목록이다.
func Names() []string {
	return []string{"bash", "zsh", "fish"}
}

// Lookup은 이름에 해당하는 Dialect를 반환한다.
func Lookup(name string) (*Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("shell.Lookup: %q: %w", name, ErrUnknownShell)
	}
	return d, nil
}

// Name은 셸 이름이다.
func (d *Dialect) Name() string { return d.name }

// ProfilePath는 hook을 source할 셸 설정 파일 경로다.
func (d *Dialect) ProfilePath(home string) string {
	return filepath.Join(append([]string{home}, d.profile...)...)
}

// HookTarget은 hook 스크립트를 설치할 경로다.
func (d *Dialect) HookTarget(home string) string {
	return filepath.Join(home, d.hookTarget)
}

// DefaultCDCommand는 cd_command가 없을 때 hook이 쓰는 명령이다.
func (d *Dialect) DefaultCDCommand() string { return d.defaultCD }

// Script는 치환 전 hook 스크립트다.
func (d *Dialect) Script() string {
	data, err := hooks.ReadFile("hooks/cdwe." + d.name)
	if err != nil {
		// 빌드 시 embed되므로 도달하지 않는다.
		panic(err)
	}
	return string(data)
}

// Render는 실행 파일 경로와 cd 명령을 채운 hook 스크립트를 반환한다.
func (d *Dialect) Render(execPath, cdCommand string) string {
	if cdCommand == "" {
		cdCommand = d.defaultCD
	}
	return strings.NewReplacer(
		"{{exec_path}}", execPath,
		"{{cd_command}}", cdCommand,
	).Replace(d.Script())
}

// SourceLine은 profile에 추가하는 한 줄이다.
func (d *Dialect) SourceLine(home string) string {
	return "source " + d.HookTarget(home)
}

// AliasTemplate은 alias 함수 정의의 시작과 끝 문자열이다.
// 본문 명령은 두 문자열 사이에 한 줄씩 들어간다.
func (d *Dialect) AliasTemplate(name string) (start, end string) {
	if d.name == "fish" {
		return fmt.Sprintf("function %s -d \"cdwe alias %s\"\n", name, name), "end\n"
	}
	return name + "() {\n", "}\n"
}

// DefineAlias는 alias 전체 정의를 반환한다.
func (d *Dialect) DefineAlias(a config.EnvAlias) string {
	start, end := d.AliasTemplate(a.Name)
	var b strings.Builder
	b.WriteString(start)
	for _, cmd := range a.Commands {
		b.WriteString(cmd)
		b.WriteString("\n")
	}
	// bash와 zsh는 빈 함수 본문을 문법 오류로 본다.
	if len(a.Commands) == 0 && d.name != "fish" {
		b.WriteString(":\n")
	}
	b.WriteString(end)
	return strings.TrimSuffix(b.String(), "\n")
}

// Export는 변수 설정 문장이다. 값은 큰따옴표 안에 그대로 넣으므로 $VAR 확장이 된다.
func (d *Dialect) Export(name, value string) string {
	if d != nil && d.name == "fish" {
		return fmt.Sprintf("set -gx %s \"%s\"", name, value)
	}
	return fmt.Sprintf("export %s=\"%s\"", name, value)
}

// Unset은 변수 해제 문장이다.
func (d *Dialect) Unset(name string) string {
	if d != nil && d.name == "fish" {
		return "set -e " + name
	}
	return "unset " + name
}

// UnsetAlias는 alias 함수 해제 문장이다. 정의되지 않은 경우의 에러는 버린다.
func (d *Dialect) UnsetAlias(name string) string {
	if d != nil && d.name == "fish" {
		return "functions -e " + name + " 2>/dev/null"
	}
	return "unset -f " + name + " &> /dev/null"
}

// Hint는 흐린 회색으로 text를 출력하는 echo 문장이다.
func (d *Dialect) Hint(text string) string {
	special := `\"$` + "`"
	if d != nil && d.name == "fish" {
		special = `\"$`
	}
	var b strings.Builder
	for _, r := range text {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return `echo -e "\033[90m` + b.String() + `\033[0m"`
}
