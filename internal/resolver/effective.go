package resolver

import (
	"path/filepath"
	"sort"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/config"
)

// State는 한 경로에서 활성화되어야 하는 전체 내용이다.
// Files는 아직 읽지 않은 import 파일의 절대 경로다.
type State struct {
	Variables []config.EnvVariable
	Aliases   []config.EnvAlias
	Run       []string
	Files     []string
}

// Empty는 활성화할 것이 없으면 true를 반환한다.
func (s State) Empty() bool {
	return len(s.Variables) == 0 && len(s.Aliases) == 0 && len(s.Run) == 0 && len(s.Files) == 0
}

// Resolver는 캐시와 설정을 합쳐 경로별 State를 계산한다.
type Resolver struct {
	config *config.Config
	cache  *cache.Cache
	env    Env
}

// New는 새 Resolver를 생성한다.
func New(cfg *config.Config, c *cache.Cache, env Env) *Resolver {
	if env == nil {
		env = OSEnv{}
	}
	return &Resolver{config: cfg, cache: c, env: env}
}

// Effective는 path의 State를 계산한다.
//
//  1. 캐시: path와 그 조상 경로(루트부터)의 항목에서 variables, aliases를 모은다.
//     run과 load_from은 path와 정확히 같은 항목에서만 가져온다.
//  2. 전역 env_variable, env_file, alias: scope 중 하나라도 접두 일치하면 적용.
//  3. 전역 command: scope 중 하나라도 정확히 일치하면 적용.
//
// 빈 path는 빈 State다.
func (r *Resolver) Effective(path string) State {
	var st State
	if path == "" {
		return st
	}
	path = filepath.Clean(path)

	for _, dir := range ancestors(path) {
		entry, ok := r.cache.Get(dir)
		if !ok {
			continue
		}
		st.Variables = append(st.Variables, entry.Variables...)
		st.Aliases = append(st.Aliases, entry.Aliases...)
		if dir == path {
			st.Run = append(st.Run, entry.Run...)
			for _, f := range entry.LoadFrom {
				st.Files = append(st.Files, relativeTo(path, f))
			}
		}
	}

	if r.config == nil {
		return st
	}
	for _, v := range r.config.Variables {
		if _, ok := r.matchScope(v.Scope, path, MatchPrefix); ok {
			st.Variables = append(st.Variables, config.EnvVariable{Name: v.Name, Value: v.Value})
		}
	}
	for _, f := range r.config.Files {
		if base, ok := r.matchScope(f.Scope, path, MatchPrefix); ok {
			st.Files = append(st.Files, relativeTo(base, f.LoadFrom))
		}
	}
	for _, a := range r.config.Aliases {
		if _, ok := r.matchScope(a.Scope, path, MatchPrefix); ok {
			st.Aliases = append(st.Aliases, config.EnvAlias{Name: a.Name, Commands: a.Commands})
		}
	}
	for _, cmd := range r.config.Commands {
		if _, ok := r.matchScope(cmd.Scope, path, MatchExact); ok {
			st.Run = append(st.Run, cmd.Run)
		}
	}
	return st
}

// matchScope는 처음으로 일치한 scope 경로(템플릿 적용 후)를 반환한다.
func (r *Resolver) matchScope(s config.Scope, path string, match func(string, string) bool) (string, bool) {
	for _, declared := range s.List() {
		declared = ExpandPath(declared, r.env)
		if match(declared, path) {
			return filepath.Clean(declared), true
		}
	}
	return "", false
}

// DeclaredFiles는 설정에 선언된 모든 import 파일의 절대 경로를 정렬해 반환한다.
// 전역 env_file은 scope 경로마다 따로 센다.
func (r *Resolver) DeclaredFiles() []string {
	seen := make(map[string]bool)
	add := func(p string) {
		seen[filepath.Clean(p)] = true
	}
	if r.cache != nil {
		for dir, entry := range r.cache.Values {
			for _, f := range entry.LoadFrom {
				add(relativeTo(dir, f))
			}
		}
	}
	if r.config != nil {
		for _, f := range r.config.Files {
			for _, declared := range f.Scope.List() {
				add(relativeTo(filepath.Clean(ExpandPath(declared, r.env)), f.LoadFrom))
			}
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ancestors는 루트부터 path까지의 경로 목록이다.
func ancestors(path string) []string {
	var out []string
	for {
		out = append(out, path)
		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func relativeTo(base, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}
