package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/cmdexec"
	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/logging"
	"github.com/hbjs97/cdwe/internal/resolver"
	"github.com/hbjs97/cdwe/internal/setup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App은 CLI 명령이 공유하는 의존성이다. 테스트에서는 필드를 직접 채운다.
type App struct {
	Home       string
	CfgPath    string
	CachePath  string
	ExecPath   string
	Env        resolver.Env
	Scheduler  cache.Scheduler
	FormRunner setup.FormRunner
	Commander  cmdexec.Commander
	Log        *zap.Logger

	verbose bool
}

// NewApp은 프로세스 환경에서 App을 만든다. $HOME을 알 수 없으면 ErrNoHome이다.
func NewApp() (*App, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return nil, fmt.Errorf("cli.NewApp: %w", ErrNoHome)
	}
	execPath, err := os.Executable()
	if err != nil {
		execPath = "cdwe"
	}

	return &App{
		Home:       home,
		CfgPath:    filepath.Join(home, "cdwe.toml"),
		CachePath:  filepath.Join(home, ".cdwe_cache.json"),
		ExecPath:   execPath,
		Env:        resolver.OSEnv{},
		Scheduler:  &cache.Background{},
		FormRunner: &setup.HuhFormRunner{},
		Commander:  &cmdexec.RealCommander{},
	}, nil
}

// NewRootCmd는 cdwe CLI의 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cdwe",
		Short:        "디렉토리별 환경변수, alias, 명령 자동 적용",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.Log == nil {
				a.Log = logging.New(logging.FromEnv(a.verbose), cmd.ErrOrStderr())
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", a.CfgPath, "설정 파일 경로")
	cmd.PersistentFlags().StringVar(&a.CachePath, "cache", a.CachePath, "캐시 파일 경로")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug 로그 출력")

	cmd.AddCommand(
		a.newRunCmd(),
		a.newInitCmd(),
		a.newReloadCmd(),
		a.newRemoveCmd(),
		a.newShowCmd(),
		a.newDoctorCmd(),
	)
	return cmd
}

// Sync는 로그 버퍼를 비운다.
func (a *App) Sync() {
	if a.Log != nil {
		_ = a.Log.Sync() // stderr sync 실패는 무시
	}
}

func (a *App) env() resolver.Env {
	if a.Env == nil {
		return resolver.OSEnv{}
	}
	return a.Env
}

func (a *App) scheduler() cache.Scheduler {
	if a.Scheduler == nil {
		return cache.Inline{}
	}
	return a.Scheduler
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// loadCache는 설정 원문 해시로 캐시를 읽거나 다시 만든다. 다시 만들었으면 rebuilt가 true다.
func (a *App) loadCache(cfg *config.Config, text string) (c *cache.Cache, rebuilt bool, err error) {
	hash := cache.ContentHash(text)
	return cache.GetOrCreate(cache.ReadFile(a.CachePath), hash, func() (*cache.Cache, error) {
		return resolver.Build(cfg, hash, a.env()), nil
	})
}
