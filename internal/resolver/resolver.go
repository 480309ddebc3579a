package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hbjs97/cdwe/internal/cache"
	"github.com/hbjs97/cdwe/internal/config"
)

// Env는 경로 템플릿에 쓰이는 환경변수 조회다. 테스트에서는 MapEnv를 주입한다.
type Env interface {
	Lookup(key string) (string, bool)
}

// OSEnv는 현재 프로세스 환경을 읽는다.
type OSEnv struct{}

// Lookup은 os.LookupEnv다.
func (OSEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// MapEnv는 고정된 환경이다.
type MapEnv map[string]string

// Lookup은 map 조회다.
func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

var placeholder = regexp.MustCompile(`\{\{(.*?)\}\}`)

// ExpandPath는 path 안의 {{VAR}}를 env 값으로 바꾼다.
// 정의되지 않은 변수는 원문 그대로 남긴다.
func ExpandPath(path string, env Env) string {
	if !strings.Contains(path, "{{") {
		return path
	}
	return placeholder.ReplaceAllStringFunc(path, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if v, ok := env.Lookup(name); ok {
			return v
		}
		return match
	})
}

// MatchPrefix는 candidate가 declared와 같거나 declared 아래의 경로이면 true다.
// 경로 구성요소 단위로 비교하므로 /home/a는 /home/ab와 맞지 않는다.
func MatchPrefix(declared, candidate string) bool {
	if declared == "" || candidate == "" {
		return false
	}
	declared = filepath.Clean(declared)
	candidate = filepath.Clean(candidate)
	if declared == candidate {
		return true
	}
	if declared == string(filepath.Separator) {
		return filepath.IsAbs(candidate)
	}
	return strings.HasPrefix(candidate, declared+string(filepath.Separator))
}

// MatchExact는 두 경로가 같을 때만 true다.
func MatchExact(declared, candidate string) bool {
	if declared == "" || candidate == "" {
		return false
	}
	return filepath.Clean(declared) == filepath.Clean(candidate)
}

// Build는 [[directory]] 항목들을 경로 키 캐시로 컴파일한다.
// 같은 경로가 여러 번 선언되면 마지막 항목이 남는다.
// 전역 선언(env_variable, command, env_file, alias)은 넣지 않는다.
func Build(cfg *config.Config, configHash string, env Env) *cache.Cache {
	c := cache.New(cfg.Settings().Shell, configHash)
	for _, d := range cfg.Directories {
		key := filepath.Clean(ExpandPath(d.Path, env))
		c.Values[key] = cache.DirCache{
			Variables: append([]config.EnvVariable{}, d.Vars...),
			Run:       append([]string{}, d.Run...),
			Aliases:   append([]config.EnvAlias{}, d.Aliases...),
			LoadFrom:  append([]string{}, d.LoadFrom...),
		}
	}
	return c
}
