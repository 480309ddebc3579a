package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/transition"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) newRunCmd() *cobra.Command {
	var oldDir, newDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "디렉토리 이동 시 셸이 eval할 문장을 출력한다",
		Long: "셸 hook이 cd마다 호출한다. --old_dir의 환경을 해제하고 --new_dir의 환경을 적용하는\n" +
			"셸 문장을 stdout에 출력한다. 에러가 나면 stdout에는 아무것도 쓰지 않는다.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRun(cmd.OutOrStdout(), oldDir, newDir)
		},
	}
	cmd.Flags().StringVar(&oldDir, "old_dir", "", "이동 전 디렉토리")
	cmd.Flags().StringVar(&newDir, "new_dir", "", "이동 후 디렉토리")
	_ = cmd.MarkFlagRequired("old_dir") // 플래그가 정의되어 있으므로 실패하지 않음
	_ = cmd.MarkFlagRequired("new_dir")
	return cmd
}

func (a *App) runRun(out io.Writer, oldDir, newDir string) error {
	cfg, text, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	c, rebuilt, err := a.loadCache(cfg, text)
	if err != nil {
		return fmt.Errorf("cli.run: %w", err)
	}

	e := transition.New(cfg, c, a.env(), a.overlayLoader(), a.logger())
	lines, err := e.Transition(oldDir, newDir)
	if err != nil {
		return err
	}

	if len(lines) > 0 {
		if _, err := io.WriteString(out, strings.Join(lines, "\n")+"\n"); err != nil {
			return fmt.Errorf("cli.run: %w", err)
		}
	}
	// 저장은 기다리지 않는다. 프로세스가 먼저 끝나면 다음 실행이 다시 만든다.
	if rebuilt {
		a.logger().Debug("캐시 재생성", zap.String("hash", c.Hash), zap.Int("entries", len(c.Values)))
		cache.Persist(c, a.CachePath, a.scheduler(), a.logger())
	}
	return nil
}

// overlayLoader는 디렉토리의 cdwe.toml을 읽는다. 전역 설정 파일 자신은 제외한다.
func (a *App) overlayLoader() transition.OverlayLoader {
	return transition.OverlayFunc(func(dir string) (*config.Overlay, error) {
		return config.LoadOverlay(dir, a.CfgPath)
	})
}
