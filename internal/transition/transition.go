// Package transition turns an (old directory, new directory) pair into the shell
// statements that move the environment from one to the other.
//
// Output order:
//
//	unset     variables and aliases of the old state that the new state does not set
//	hints     optional dimmed echo lines
//	export    variables of the new state, import files included
//	run       commands of the new state, each optionally preceded by a hint
//	alias     function definitions of the new state
//	overlay   the same five phases for the directory-local cdwe.toml files
//
// A malformed import file fails the whole transition and no statement is returned.
package transition

import (
	"fmt"
	"strings"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/envfile"
	"github.com/hbjs97/cdwe/internal/resolver"
	"github.com/hbjs97/cdwe/internal/shell"
	"go.uber.org/zap"
)

// OverlayLoader는 디렉토리 로컬 설정을 읽는다. 없으면 (nil, nil)이다.
type OverlayLoader interface {
	LoadOverlay(dir string) (*config.Overlay, error)
}

// OverlayFunc는 함수를 OverlayLoader로 쓴다.
type OverlayFunc func(dir string) (*config.Overlay, error)

// LoadOverlay는 f(dir)이다.
func (f OverlayFunc) LoadOverlay(dir string) (*config.Overlay, error) { return f(dir) }

// Emitter는 상태를 갖지 않는다. 호출마다 캐시와 설정만으로 결과가 정해진다.
type Emitter struct {
	resolver *resolver.Resolver
	settings config.GlobalConfig
	shell    string
	overlays OverlayLoader
	log      *zap.Logger
}

// New는 새 Emitter를 생성한다. overlays와 log는 nil이어도 된다.
func New(cfg *config.Config, c *cache.Cache, env resolver.Env, overlays OverlayLoader, log *zap.Logger) *Emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{
		resolver: resolver.New(cfg, c, env),
		settings: cfg.Settings(),
		shell:    c.Shell,
		overlays: overlays,
		log:      log,
	}
}

// layer는 한 단계(캐시+전역 또는 로컬 설정)에서 적용할 내용이다.
type layer struct {
	variables []config.EnvVariable
	aliases   []config.EnvAlias
	run       []string
}

func (l layer) empty() bool {
	return len(l.variables) == 0 && len(l.aliases) == 0 && len(l.run) == 0
}

// Transition은 oldPath에서 newPath로 이동할 때의 셸 문장을 순서대로 반환한다.
// 두 경로가 같거나 적용할 것이 없으면 빈 결과다.
func (e *Emitter) Transition(oldPath, newPath string) ([]string, error) {
	if oldPath == newPath {
		return nil, nil
	}

	oldMain, err := e.mainLayer(oldPath)
	if err != nil {
		return nil, err
	}
	newMain, err := e.mainLayer(newPath)
	if err != nil {
		return nil, err
	}
	oldLocal := e.overlayLayer(oldPath)
	newLocal := e.overlayLayer(newPath)

	if oldMain.empty() && newMain.empty() && oldLocal.empty() && newLocal.empty() {
		return nil, nil
	}

	// 셸을 알 수 없으면 dialect는 nil이고 변수 문장은 POSIX 문법으로 나간다.
	dialect, dialectErr := shell.Lookup(e.shell)
	if len(newLocal.aliases) > 0 && dialectErr != nil {
		e.log.Warn("로컬 설정의 alias를 건너뜁니다",
			zap.String("dir", newPath), zap.String("shell", e.shell), zap.Error(dialectErr))
		newLocal.aliases = nil
	}

	keepVars := make(map[string]bool)
	keepAliases := make(map[string]bool)
	for _, l := range []layer{newMain, newLocal} {
		for _, v := range l.variables {
			keepVars[v.Name] = true
		}
		for _, a := range l.aliases {
			keepAliases[a.Name] = true
		}
	}

	s := &script{dialect: dialect, settings: e.settings}
	s.unset(oldMain, keepVars, keepAliases)
	if err := s.apply(newMain, dialectErr); err != nil {
		return nil, fmt.Errorf("transition.Transition: %w", err)
	}

	s.unset(oldLocal, keepVars, keepAliases)
	if err := s.apply(newLocal, nil); err != nil {
		return nil, fmt.Errorf("transition.Transition: %w", err)
	}

	return s.lines, nil
}

// mainLayer는 캐시와 전역 선언에서 path의 layer를 만들고 import 파일을 읽는다.
func (e *Emitter) mainLayer(path string) (layer, error) {
	st := e.resolver.Effective(path)
	vars := append([]config.EnvVariable{}, st.Variables...)
	for _, file := range st.Files {
		fileVars, err := envfile.Load(file)
		if err != nil {
			return layer{}, fmt.Errorf("transition.Transition: %s: %w", path, err)
		}
		vars = append(vars, fileVars...)
	}
	return layer{variables: vars, aliases: st.Aliases, run: st.Run}, nil
}

// overlayLayer는 path의 로컬 설정을 읽는다. 읽기 실패는 경고만 남긴다.
func (e *Emitter) overlayLayer(path string) layer {
	if e.overlays == nil || path == "" {
		return layer{}
	}
	o, err := e.overlays.LoadOverlay(path)
	if err != nil {
		e.log.Warn("로컬 설정을 무시합니다", zap.String("dir", path), zap.Error(err))
		return layer{}
	}
	if o.Empty() {
		return layer{}
	}
	return layer{variables: o.Variables, aliases: o.Aliases, run: o.Commands}
}

// script는 출력 문장을 모은다.
type script struct {
	dialect  *shell.Dialect
	settings config.GlobalConfig
	lines    []string
}

func (s *script) emit(line string) {
	s.lines = append(s.lines, line)
}

// unset은 old의 변수와 alias 중 keep에 없는 것을 해제한다. 같은 이름은 한 번만 해제한다.
func (s *script) unset(old layer, keepVars, keepAliases map[string]bool) {
	seen := make(map[string]bool)
	for _, v := range old.variables {
		if keepVars[v.Name] || seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		s.emit(s.dialect.Unset(v.Name))
	}
	seen = make(map[string]bool)
	for _, a := range old.aliases {
		if keepAliases[a.Name] || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		s.emit(s.dialect.UnsetAlias(a.Name))
	}
}

// apply는 hint, export, run, alias 단계를 출력한다.
// alias가 있는데 셸을 알 수 없으면 dialectErr를 반환한다.
func (s *script) apply(l layer, dialectErr error) error {
	if len(l.aliases) > 0 && dialectErr != nil {
		return dialectErr
	}

	if s.settings.EnvHintsEnabled() && len(l.variables) > 0 {
		s.emit(s.dialect.Hint("[cdwe] available env vars: " + strings.Join(uniqueVarNames(l.variables), ", ")))
	}
	if s.settings.AliasHintsEnabled() && len(l.aliases) > 0 {
		s.emit(s.dialect.Hint("[cdwe] available aliases: " + strings.Join(uniqueAliasNames(l.aliases), ", ")))
	}

	for _, v := range l.variables {
		s.emit(s.dialect.Export(v.Name, v.Value))
	}
	for _, cmd := range l.run {
		if s.settings.RunHintsEnabled() {
			s.emit(s.dialect.Hint("[cdwe] running command: " + cmd))
		}
		s.emit(cmd)
	}
	for _, a := range l.aliases {
		s.emit(s.dialect.DefineAlias(a))
	}
	return nil
}

func uniqueVarNames(vars []config.EnvVariable) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v.Name)
		}
	}
	return out
}

func uniqueAliasNames(aliases []config.EnvAlias) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range aliases {
		if !seen[a.Name] {
			seen[a.Name] = true
			out = append(out, a.Name)
		}
	}
	return out
}
