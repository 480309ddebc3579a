package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/cdwe/internal/shell"
)

// DetectShell은 $SHELL에서 현재 사용자의 셸 이름을 감지한다. 설정되지 않았으면 빈 문자열이다.
func DetectShell() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return ""
	}
	return filepath.Base(sh)
}

// InstallHook은 hook 스크립트를 d의 hook 경로에 쓰고 셸 설정 파일에 source 줄을 추가한다.
// hook 스크립트는 매번 다시 쓰고, source 줄은 이미 있으면 건너뛴다.
func InstallHook(d *shell.Dialect, home, execPath, cdCommand string) (*Result, error) {
	res := &Result{
		Shell:       d.Name(),
		HookPath:    d.HookTarget(home),
		ProfilePath: d.ProfilePath(home),
	}

	if err := os.WriteFile(res.HookPath, []byte(d.Render(execPath, cdCommand)), 0600); err != nil {
		return nil, fmt.Errorf("setup.InstallHook: %w", err)
	}

	line := d.SourceLine(home)
	existing, _ := os.ReadFile(res.ProfilePath) // 파일이 없으면 빈 바이트
	if hasLine(string(existing), line) {
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(res.ProfilePath), 0700); err != nil {
		return nil, fmt.Errorf("setup.InstallHook: %w", err)
	}
	f, err := os.OpenFile(res.ProfilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("setup.InstallHook: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n%s\n", line); err != nil {
		return nil, fmt.Errorf("setup.InstallHook: %w", err)
	}
	res.SourceAdded = true
	return res, nil
}

// RemoveHook은 셸 설정 파일에서 source 줄을 지우고 hook 스크립트를 삭제한다.
// 설치되어 있지 않으면 아무것도 하지 않는다.
func RemoveHook(d *shell.Dialect, home string) error {
	profile := d.ProfilePath(home)
	line := d.SourceLine(home)

	data, err := os.ReadFile(profile)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("setup.RemoveHook: %w", err)
	case hasLine(string(data), line):
		info, err := os.Stat(profile)
		if err != nil {
			return fmt.Errorf("setup.RemoveHook: %w", err)
		}
		if err := os.WriteFile(profile, []byte(dropLine(string(data), line)), info.Mode().Perm()); err != nil {
			return fmt.Errorf("setup.RemoveHook: %w", err)
		}
	}

	if err := os.Remove(d.HookTarget(home)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("setup.RemoveHook: %w", err)
	}
	return nil
}

// HookInstalled는 hook 스크립트가 있고 셸 설정 파일이 그것을 source하는지 확인한다.
func HookInstalled(d *shell.Dialect, home string) bool {
	script, err := os.ReadFile(d.HookTarget(home))
	if err != nil || !strings.Contains(string(script), shell.HookMarker) {
		return false
	}
	profile, err := os.ReadFile(d.ProfilePath(home))
	if err != nil {
		return false
	}
	return hasLine(string(profile), d.SourceLine(home))
}

func hasLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

// dropLine은 line과 같은 줄과, 설치 시 그 앞에 넣은 빈 줄을 함께 지운다.
func dropLine(content, line string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == line {
			if n := len(out); n > 0 && out[n-1] == "" {
				out = out[:n-1]
			}
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
