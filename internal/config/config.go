package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrConfig는 설정 파일을 읽거나 해석할 수 없을 때의 sentinel error다.
var ErrConfig = errors.New("설정 파일 오류")

// Config는 cdwe.toml의 최상위 구조체다.
type Config struct {
	Global      *GlobalConfig    `toml:"config"`
	Directories []Directory      `toml:"directory"`
	Variables   []ScopedVariable `toml:"env_variable"`
	Commands    []ScopedCommand  `toml:"command"`
	Files       []ScopedFile     `toml:"env_file"`
	Aliases     []ScopedAlias    `toml:"alias"`
}

// GlobalConfig는 [config] 테이블이다. 힌트 토글은 지정하지 않으면 켜진 상태다.
type GlobalConfig struct {
	Shell      string `toml:"shell"`
	CDCommand  string `toml:"cd_command"`
	EnvHints   *bool  `toml:"env_hints"`
	RunHints   *bool  `toml:"run_hints"`
	AliasHints *bool  `toml:"alias_hints"`
}

// Directory는 하나의 [[directory]] 항목이다.
type Directory struct {
	Path     string     `toml:"path"`
	Vars     Vars       `toml:"vars"`
	LoadFrom []string   `toml:"load_from"`
	Run      []string   `toml:"run"`
	Aliases  []EnvAlias `toml:"aliases"`
}

// EnvVariable은 이름과 값 한 쌍이다.
type EnvVariable struct {
	Name  string `toml:"name" json:"name"`
	Value string `toml:"value" json:"value"`
}

// EnvAlias는 셸 함수로 정의되는 alias다.
type EnvAlias struct {
	Name     string   `toml:"name" json:"name"`
	Commands []string `toml:"commands" json:"commands"`
}

// Scope는 전역 선언이 적용되는 경로 목록이다. dirs와 paths 두 표기를 모두 받는다.
type Scope struct {
	Dirs  []string `toml:"dirs"`
	Paths []string `toml:"paths"`
}

// List는 dirs와 paths를 선언 순서대로 합친다.
func (s Scope) List() []string {
	out := make([]string, 0, len(s.Dirs)+len(s.Paths))
	out = append(out, s.Dirs...)
	return append(out, s.Paths...)
}

// ScopedVariable은 [[env_variable]] 항목이다.
type ScopedVariable struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
	Scope
}

// ScopedCommand는 [[command]] 항목이다.
type ScopedCommand struct {
	Run string `toml:"run"`
	Scope
}

// ScopedFile은 [[env_file]] 항목이다.
type ScopedFile struct {
	LoadFrom string `toml:"load_from"`
	Scope
}

// ScopedAlias는 [[alias]] 항목이다.
type ScopedAlias struct {
	Name     string   `toml:"name"`
	Commands []string `toml:"commands"`
	Scope
}

// Load는 path의 설정 파일을 읽어 원문과 파싱 결과를 함께 반환한다.
// 원문은 캐시 해시 계산에 쓰인다.
func Load(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("config.Load: %s 읽기 실패: %w: %w", path, ErrConfig, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, "", fmt.Errorf("config.Load: %s: %w", path, err)
	}
	return cfg, string(data), nil
}

// Parse는 TOML 원문을 Config로 변환한다.
func Parse(content string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("config.Parse: %w: %w", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Settings는 [config] 테이블을 반환한다. 테이블이 없으면 기본값을 채운 값이다.
func (c *Config) Settings() GlobalConfig {
	if c.Global == nil {
		g := GlobalConfig{}
		g.applyDefaults()
		return g
	}
	return *c.Global
}

// EnvHintsEnabled는 env_hints 설정값을 반환한다.
func (g GlobalConfig) EnvHintsEnabled() bool { return enabled(g.EnvHints) }

// RunHintsEnabled는 run_hints 설정값을 반환한다.
func (g GlobalConfig) RunHintsEnabled() bool { return enabled(g.RunHints) }

// AliasHintsEnabled는 alias_hints 설정값을 반환한다.
func (g GlobalConfig) AliasHintsEnabled() bool { return enabled(g.AliasHints) }

func enabled(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

func (c *Config) applyDefaults() {
	if c.Global == nil {
		c.Global = &GlobalConfig{}
	}
	c.Global.applyDefaults()
}

func (g *GlobalConfig) applyDefaults() {
	if g.Shell == "" {
		g.Shell = DefaultShell
	}
	if g.CDCommand == "" {
		g.CDCommand = defaultCDCommand(g.Shell)
	}
}

// DefaultShell은 [config].shell이 없을 때 쓰는 셸이다.
const DefaultShell = "bash"

// defaultCDCommand는 shell 패키지의 기본값과 같다. config가 shell을 import하지 않도록 둘로 둔다.
func defaultCDCommand(shell string) string {
	if shell == "fish" {
		return "cd"
	}
	return "builtin cd"
}

func (c *Config) validate() error {
	for i, d := range c.Directories {
		if d.Path == "" {
			return fmt.Errorf("config.Parse: directory[%d].path 필수: %w", i, ErrConfig)
		}
		if err := validateAliases(fmt.Sprintf("directory[%d].aliases", i), d.Aliases); err != nil {
			return err
		}
		if err := d.Vars.validate(fmt.Sprintf("directory[%d].vars", i)); err != nil {
			return err
		}
	}
	for i, v := range c.Variables {
		if v.Name == "" {
			return fmt.Errorf("config.Parse: env_variable[%d].name 필수: %w", i, ErrConfig)
		}
	}
	for i, cmd := range c.Commands {
		if cmd.Run == "" {
			return fmt.Errorf("config.Parse: command[%d].run 필수: %w", i, ErrConfig)
		}
	}
	for i, f := range c.Files {
		if f.LoadFrom == "" {
			return fmt.Errorf("config.Parse: env_file[%d].load_from 필수: %w", i, ErrConfig)
		}
	}
	for i, a := range c.Aliases {
		if a.Name == "" {
			return fmt.Errorf("config.Parse: alias[%d].name 필수: %w", i, ErrConfig)
		}
	}
	return nil
}

func validateAliases(where string, aliases []EnvAlias) error {
	for i, a := range aliases {
		if a.Name == "" {
			return fmt.Errorf("config.Parse: %s[%d].name 필수: %w", where, i, ErrConfig)
		}
	}
	return nil
}
