package setup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hbjs97/cdwe/internal/shell"
)

// starterTemplate는 설정 파일이 없을 때 init이 생성하는 cdwe.toml 내용이다.
const starterTemplate = `# cdwe configuration file
# See: https://github.com/hbjs97/cdwe

[config]
shell = %q
# cd_command = "builtin cd"
# env_hints = true
# run_hints = true
# alias_hints = true

# [[directory]]
# path = "{{HOME}}/projects/example"
# vars = { EXAMPLE = "1" }
# load_from = [".env"]
# run = ["git fetch"]
#
# [[directory.aliases]]
# name = "build"
# commands = ["make build"]
`

// Runner는 init, reload, remove의 진입점이다.
type Runner struct {
	Home       string
	CfgPath    string
	ExecPath   string
	FormRunner FormRunner
	Out        io.Writer
}

// ResolveShell은 name이 있으면 그 셸을, 없으면 $SHELL에서 감지한 셸을 반환한다.
// 감지에 실패하면 FormRunner로 사용자에게 묻는다.
func (r *Runner) ResolveShell(name string) (*shell.Dialect, error) {
	if name != "" {
		return shell.Lookup(name)
	}
	if d, err := shell.Lookup(DetectShell()); err == nil {
		return d, nil
	}
	if r.FormRunner == nil {
		return nil, fmt.Errorf("setup.ResolveShell: $SHELL=%q: %w", os.Getenv("SHELL"), shell.ErrUnknownShell)
	}
	selected, err := r.FormRunner.RunShellSelect(shell.Names())
	if err != nil {
		return nil, err
	}
	return shell.Lookup(selected)
}

// Init은 설정 파일이 없으면 기본 설정 파일을 만들고 hook을 설치한다.
func (r *Runner) Init(d *shell.Dialect) error {
	created, err := WriteStarterConfig(r.CfgPath, d.Name())
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(r.out(), "설정 파일이 생성되었습니다: %s\n", r.CfgPath)
	}
	return r.Install(d, "")
}

// Install은 cdCommand로 hook을 렌더링해 설치하고 결과를 출력한다.
// cdCommand가 비어있으면 셸의 기본 cd 명령을 쓴다.
func (r *Runner) Install(d *shell.Dialect, cdCommand string) error {
	res, err := InstallHook(d, r.Home, r.ExecPath, cdCommand)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "hook 스크립트가 설치되었습니다: %s\n", res.HookPath)
	if res.SourceAdded {
		fmt.Fprintf(r.out(), "%s에 source 줄을 추가했습니다. 새 셸을 열거나 다음을 실행하세요:\n  %s\n",
			res.ProfilePath, d.SourceLine(r.Home))
	}
	return nil
}

// Remove는 확인 후 hook을 제거한다. FormRunner가 없으면 묻지 않는다.
func (r *Runner) Remove(d *shell.Dialect) error {
	if r.FormRunner != nil {
		ok, err := r.FormRunner.RunConfirm(fmt.Sprintf("%s hook을 제거할까요?", d.Name()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(r.out(), "취소되었습니다.")
			return nil
		}
	}
	if err := RemoveHook(d, r.Home); err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "%s hook이 제거되었습니다.\n", d.Name())
	return nil
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// WriteStarterConfig는 path에 설정 파일이 없을 때만 기본 설정을 쓴다. 새로 썼으면 true다.
func WriteStarterConfig(path, shellName string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("setup.WriteStarterConfig: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("setup.WriteStarterConfig: 디렉토리 생성 실패: %w", err)
	}
	if err := os.WriteFile(path, []byte(fmt.Sprintf(starterTemplate, shellName)), 0600); err != nil {
		return false, fmt.Errorf("setup.WriteStarterConfig: 설정 파일 생성 실패: %w", err)
	}
	return true, nil
}
