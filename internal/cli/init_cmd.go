package cli

import (
	"fmt"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/resolver"
	"github.com/hbjs97/cdwe/internal/setup"
	"github.com/hbjs97/cdwe/internal/shell"
	"github.com/spf13/cobra"
)

func (a *App) runner(cmd *cobra.Command, interactive bool) *setup.Runner {
	r := &setup.Runner{
		Home:     a.Home,
		CfgPath:  a.CfgPath,
		ExecPath: a.ExecPath,
		Out:      cmd.OutOrStdout(),
	}
	if interactive {
		r.FormRunner = a.FormRunner
	}
	return r
}

func (a *App) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "init [shell]",
		Short:     "셸 hook을 설치한다",
		Long:      "hook 스크립트를 홈 디렉토리에 쓰고 셸 설정 파일에 source 줄을 추가한다.\n셸을 지정하지 않으면 $SHELL에서 감지한다.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: shell.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.runner(cmd, true)
			d, err := r.ResolveShell(firstArg(args))
			if err != nil {
				return err
			}
			return r.Init(d)
		},
	}
}

func (a *App) newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reload [shell]",
		Short:     "설정의 cd_command로 hook을 다시 쓰고 캐시를 재생성한다",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: shell.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReload(cmd, firstArg(args))
		},
	}
}

func (a *App) runReload(cmd *cobra.Command, shellName string) error {
	cfg, text, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	settings := cfg.Settings()
	if shellName == "" {
		shellName = settings.Shell
	}
	d, err := shell.Lookup(shellName)
	if err != nil {
		return err
	}

	if err := a.runner(cmd, false).Install(d, settings.CDCommand); err != nil {
		return err
	}

	c := resolver.Build(cfg, cache.ContentHash(text), a.env())
	if err := c.Save(a.CachePath); err != nil {
		return fmt.Errorf("cli.reload: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "캐시를 재생성했습니다: %s (경로 %d개)\n", a.CachePath, len(c.Values))
	return nil
}

func (a *App) newRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:       "remove [shell]",
		Short:     "셸 hook을 제거한다",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: shell.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.runner(cmd, !yes)
			d, err := r.ResolveShell(firstArg(args))
			if err != nil {
				return err
			}
			return r.Remove(d)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "확인 없이 제거")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
