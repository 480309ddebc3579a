package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// OverlayFileName은 디렉토리 안에 두는 로컬 설정 파일 이름이다.
const OverlayFileName = "cdwe.toml"

// Overlay는 디렉토리 로컬 설정이다. 경로 범위 없이 파일이 있는 디렉토리에만 적용된다.
type Overlay struct {
	Variables Vars       `toml:"variables"`
	Aliases   []EnvAlias `toml:"aliases"`
	Commands  []string   `toml:"commands"`
}

// Empty는 적용할 내용이 없으면 true를 반환한다.
func (o *Overlay) Empty() bool {
	return o == nil || (len(o.Variables) == 0 && len(o.Aliases) == 0 && len(o.Commands) == 0)
}

// LoadOverlay는 dir/cdwe.toml을 읽는다. 파일이 없으면 (nil, nil)이다.
// skip과 같은 경로(전역 설정 파일 자신)는 로컬 설정으로 취급하지 않는다.
func LoadOverlay(dir, skip string) (*Overlay, error) {
	if dir == "" {
		return nil, nil
	}
	path := filepath.Join(dir, OverlayFileName)
	if skip != "" && filepath.Clean(skip) == path {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config.LoadOverlay: %w", err)
	}
	var o Overlay
	if _, err := toml.Decode(string(data), &o); err != nil {
		return nil, fmt.Errorf("config.LoadOverlay: %s: %w: %w", path, ErrConfig, err)
	}
	if err := o.Variables.validate(path + " variables"); err != nil {
		return nil, err
	}
	if err := validateAliases(path+" aliases", o.Aliases); err != nil {
		return nil, err
	}
	return &o, nil
}
