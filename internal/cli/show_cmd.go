package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/envfile"
	"github.com/hbjs97/cdwe/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	showTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	showSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("81"))
	showDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	showWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
)

func (a *App) newShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "경로에 적용되는 변수, alias, 명령을 표시한다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstArg(args)
			if path == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("cli.show: %w", err)
				}
				path = cwd
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("cli.show: %w", err)
			}
			return a.runShow(cmd.OutOrStdout(), abs, reveal)
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "비밀값으로 보이는 변수도 그대로 표시")
	return cmd
}

func (a *App) runShow(out io.Writer, path string, reveal bool) error {
	cfg, text, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	c, _, err := a.loadCache(cfg, text)
	if err != nil {
		return fmt.Errorf("cli.show: %w", err)
	}
	st := resolver.New(cfg, c, a.env()).Effective(path)
	overlay, overlayErr := a.overlayLoader().LoadOverlay(path)

	mask := func(name, value string) string {
		if reveal {
			return value
		}
		return MaskValue(name, value)
	}

	var b strings.Builder
	b.WriteString(showTitleStyle.Render(path) + "\n")
	if st.Empty() && overlay.Empty() && overlayErr == nil {
		b.WriteString(showDimStyle.Render("  적용되는 설정 없음") + "\n")
		_, err := io.WriteString(out, b.String())
		return err
	}

	if len(st.Variables) > 0 {
		writeSection(&b, "변수")
		for _, v := range st.Variables {
			fmt.Fprintf(&b, "  %s=%s\n", v.Name, mask(v.Name, v.Value))
		}
	}
	if len(st.Files) > 0 {
		writeSection(&b, "import 파일")
		for _, f := range st.Files {
			vars, err := envfile.Load(f)
			switch {
			case err != nil:
				fmt.Fprintf(&b, "  %s %s\n", f, showWarnStyle.Render("형식 오류"))
			case vars == nil:
				fmt.Fprintf(&b, "  %s %s\n", f, showDimStyle.Render("(변수 없음)"))
			default:
				fmt.Fprintf(&b, "  %s\n", f)
				for _, v := range vars {
					fmt.Fprintf(&b, "    %s=%s\n", v.Name, mask(v.Name, v.Value))
				}
			}
		}
	}
	if len(st.Aliases) > 0 {
		writeSection(&b, "alias")
		writeAliases(&b, st.Aliases)
	}
	if len(st.Run) > 0 {
		writeSection(&b, "명령")
		for _, r := range st.Run {
			fmt.Fprintf(&b, "  %s\n", r)
		}
	}

	switch {
	case overlayErr != nil:
		writeSection(&b, "로컬 설정")
		b.WriteString("  " + showWarnStyle.Render(overlayErr.Error()) + "\n")
	case !overlay.Empty():
		writeSection(&b, "로컬 설정 "+filepath.Join(path, config.OverlayFileName))
		for _, v := range overlay.Variables {
			fmt.Fprintf(&b, "  %s=%s\n", v.Name, mask(v.Name, v.Value))
		}
		writeAliases(&b, overlay.Aliases)
		for _, r := range overlay.Commands {
			fmt.Fprintf(&b, "  %s\n", r)
		}
	}

	_, err = io.WriteString(out, b.String())
	return err
}

func writeSection(b *strings.Builder, title string) {
	b.WriteString(showSectionStyle.Render(title) + "\n")
}

func writeAliases(b *strings.Builder, aliases []config.EnvAlias) {
	for _, al := range aliases {
		fmt.Fprintf(b, "  %s: %s\n", al.Name, strings.Join(al.Commands, "; "))
	}
}
