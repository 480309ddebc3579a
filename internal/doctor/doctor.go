package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/cmdexec"
	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/envfile"
	"github.com/hbjs97/cdwe/internal/resolver"
	"github.com/hbjs97/cdwe/internal/setup"
	"github.com/hbjs97/cdwe/internal/shell"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// Input은 RunAll이 검사할 경로들이다.
type Input struct {
	Home      string
	CfgPath   string
	CachePath string
	Env       resolver.Env      // nil이면 프로세스 환경
	Commander cmdexec.Commander // nil이면 셸 실행 파일 확인을 건너뜀
}

// CheckConfig는 설정 파일을 읽고 해석할 수 있는지 확인한다.
// 성공하면 설정과 원문도 함께 반환한다.
func CheckConfig(path string) (*config.Config, string, DiagResult) {
	cfg, text, err := config.Load(path)
	if err != nil {
		fix := "설정 파일의 TOML 문법과 필수 필드를 확인"
		if errors.Is(err, os.ErrNotExist) {
			fix = "cdwe init 실행"
		}
		return nil, "", DiagResult{
			Name:    "config",
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     fix,
		}
	}
	return cfg, text, DiagResult{
		Name:    "config",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s (directory %d개)", path, len(cfg.Directories)),
	}
}

// CheckShell은 [config].shell이 지원하는 셸인지 확인한다.
func CheckShell(cfg *config.Config) DiagResult {
	name := cfg.Settings().Shell
	if _, err := shell.Lookup(name); err != nil {
		return DiagResult{
			Name:    "shell",
			Status:  StatusFail,
			Message: fmt.Sprintf("지원하지 않는 셸: %s — alias를 정의할 수 없음", name),
			Fix:     "[config] shell을 bash, zsh, fish 중 하나로 설정",
		}
	}
	return DiagResult{
		Name:    "shell",
		Status:  StatusOK,
		Message: name,
	}
}

// CheckShellBinary는 셸 실행 파일이 PATH에 있는지 --version으로 확인한다.
func CheckShellBinary(ctx context.Context, cmd cmdexec.Commander, shellName string) DiagResult {
	out, err := cmd.Run(ctx, shellName, "--version")
	if err != nil {
		return DiagResult{
			Name:    shellName,
			Status:  StatusFail,
			Message: fmt.Sprintf("%s 실행 파일 없음", shellName),
			Fix:     fmt.Sprintf("%s 설치 또는 [config] shell 변경", shellName),
		}
	}
	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return DiagResult{
		Name:    shellName,
		Status:  StatusOK,
		Message: version,
	}
}

// CheckCache는 캐시 파일이 현재 설정 원문과 같은 해시로 만들어졌는지 확인한다.
// 캐시가 없거나 낡은 것은 다음 cd에서 다시 만들어지므로 경고다.
func CheckCache(cachePath, configText string) DiagResult {
	data := cache.ReadFile(cachePath)
	if data == nil {
		return DiagResult{
			Name:    "cache",
			Status:  StatusWarn,
			Message: "캐시 파일 없음 — 다음 디렉토리 이동 시 생성됨",
			Fix:     "cdwe reload 실행",
		}
	}
	c, err := cache.Decode(data)
	if err != nil {
		return DiagResult{
			Name:    "cache",
			Status:  StatusWarn,
			Message: "캐시 파일 손상 — 다음 디렉토리 이동 시 재생성됨",
			Fix:     "cdwe reload 실행",
		}
	}
	if c.Hash != cache.ContentHash(configText) {
		return DiagResult{
			Name:    "cache",
			Status:  StatusWarn,
			Message: "설정이 바뀌어 캐시가 낡음 — 다음 디렉토리 이동 시 재생성됨",
			Fix:     "cdwe reload 실행",
		}
	}
	return DiagResult{
		Name:    "cache",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s (경로 %d개)", cachePath, len(c.Values)),
	}
}

// CheckHook은 셸 hook이 설치되어 있는지 확인한다.
func CheckHook(shellName, home string) DiagResult {
	d, err := shell.Lookup(shellName)
	if err != nil {
		return DiagResult{
			Name:    "hook",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s에는 hook이 없음", shellName),
		}
	}
	if !setup.HookInstalled(d, home) {
		return DiagResult{
			Name:    "hook",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s hook 미설치", shellName),
			Fix:     fmt.Sprintf("cdwe init %s 실행", shellName),
		}
	}
	return DiagResult{
		Name:    "hook",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s → %s", d.ProfilePath(home), d.HookTarget(home)),
	}
}

// CheckImportFiles는 선언된 import 파일을 하나씩 읽어 본다.
// 없는 파일은 변수 0개로 취급되므로 경고, 형식 오류는 실패다.
func CheckImportFiles(files []string) []DiagResult {
	var results []DiagResult
	for _, f := range files {
		vars, err := envfile.Load(f)
		switch {
		case err != nil:
			results = append(results, DiagResult{
				Name:    "import " + f,
				Status:  StatusFail,
				Message: err.Error(),
				Fix:     "KEY=VALUE 형식으로 수정",
			})
		case vars == nil && !exists(f):
			results = append(results, DiagResult{
				Name:    "import " + f,
				Status:  StatusWarn,
				Message: "파일 없음 — 변수 0개로 취급",
			})
		default:
			results = append(results, DiagResult{
				Name:    "import " + f,
				Status:  StatusOK,
				Message: fmt.Sprintf("변수 %d개", len(vars)),
			})
		}
	}
	return results
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RunAll은 모든 진단을 실행한다. 설정을 읽지 못하면 나머지 진단은 건너뛴다.
func RunAll(ctx context.Context, in Input) []DiagResult {
	cfg, text, res := CheckConfig(in.CfgPath)
	results := []DiagResult{res}
	if cfg == nil {
		return results
	}

	env := in.Env
	if env == nil {
		env = resolver.OSEnv{}
	}
	c := resolver.Build(cfg, cache.ContentHash(text), env)

	shellCheck := CheckShell(cfg)
	results = append(results, shellCheck)
	if shellCheck.Status == StatusOK && in.Commander != nil {
		results = append(results, CheckShellBinary(ctx, in.Commander, cfg.Settings().Shell))
	}
	results = append(results, CheckHook(cfg.Settings().Shell, in.Home))
	results = append(results, CheckCache(in.CachePath, text))
	results = append(results, CheckImportFiles(resolver.New(cfg, c, env).DeclaredFiles())...)
	return results
}

// Failed는 results에 실패가 하나라도 있으면 true다.
func Failed(results []DiagResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
