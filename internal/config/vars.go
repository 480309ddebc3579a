package config

import (
	"fmt"
	"sort"
)

// Vars는 디렉토리 변수 선언이다. TOML에서는 두 가지 모양을 받는다.
//
//	vars = { FOO = "1", BAR = "2" }                 # mapping
//	vars = [{ name = "FOO", value = "1" }]          # list
//
// 어느 쪽이든 UnmarshalTOML에서 같은 []EnvVariable로 정규화되며,
// 그 밖의 코드는 원래 모양을 알지 못한다.
type Vars []EnvVariable

// UnmarshalTOML은 toml.Unmarshaler 구현이다.
// mapping 모양은 순서가 보존되지 않으므로 이름순으로 정렬한다.
func (v *Vars) UnmarshalTOML(data any) error {
	switch d := data.(type) {
	case map[string]any:
		names := make([]string, 0, len(d))
		for name := range d {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make(Vars, 0, len(d))
		for _, name := range names {
			value, err := scalar(d[name])
			if err != nil {
				return fmt.Errorf("vars.%s: %w", name, err)
			}
			out = append(out, EnvVariable{Name: name, Value: value})
		}
		*v = out
	case []map[string]any:
		out := make(Vars, 0, len(d))
		for i, entry := range d {
			ev, err := entryVariable(i, entry)
			if err != nil {
				return err
			}
			out = append(out, ev)
		}
		*v = out
	case []any:
		out := make(Vars, 0, len(d))
		for i, raw := range d {
			entry, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("vars[%d]: name/value 테이블이어야 합니다 (%T)", i, raw)
			}
			ev, err := entryVariable(i, entry)
			if err != nil {
				return err
			}
			out = append(out, ev)
		}
		*v = out
	default:
		return fmt.Errorf("vars: 테이블 또는 배열이어야 합니다 (%T)", data)
	}
	return nil
}

func entryVariable(i int, entry map[string]any) (EnvVariable, error) {
	name, _ := entry["name"].(string)
	value, err := scalar(entry["value"])
	if err != nil {
		return EnvVariable{}, fmt.Errorf("vars[%d].value: %w", i, err)
	}
	return EnvVariable{Name: name, Value: value}, nil
}

// scalar는 문자열 외에 숫자와 bool도 값으로 받는다. 셸에는 어차피 문자열로 전달된다.
func scalar(raw any) (string, error) {
	switch x := raw.(type) {
	case string:
		return x, nil
	case int64, float64, bool:
		return fmt.Sprint(x), nil
	case nil:
		return "", fmt.Errorf("값이 없습니다")
	default:
		return "", fmt.Errorf("지원하지 않는 값 형식 %T", raw)
	}
}

func (v Vars) validate(where string) error {
	for i, ev := range v {
		if ev.Name == "" {
			return fmt.Errorf("config.Parse: %s[%d].name 필수: %w", where, i, ErrConfig)
		}
	}
	return nil
}
