// Package envfile parses .env-style import files (KEY=VALUE per line).
//
// Blank lines and any line containing '#' are dropped before parsing. Line numbers in
// errors are 0-based indexes into the remaining lines, so the same file reports the
// same position whether it is read while setting or while unsetting.
package envfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hbjs97/cdwe/internal/config"
)

// ErrMalformed는 KEY=VALUE 형식이 아닌 줄이 있을 때의 sentinel error다.
var ErrMalformed = errors.New("잘못된 env 파일 줄")

// Parse는 content를 변수 목록으로 변환한다. fileName은 에러 메시지에만 쓰인다.
func Parse(content, fileName string) ([]config.EnvVariable, error) {
	var vars []config.EnvVariable
	index := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.Contains(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = TrimQuotes(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("envfile.Parse: %s:%d: %q: %w", fileName, index, line, ErrMalformed)
		}
		vars = append(vars, config.EnvVariable{
			Name:  key,
			Value: TrimQuotes(strings.TrimSpace(value)),
		})
		index++
	}
	return vars, nil
}

// Load는 path를 읽어 Parse한다. 파일이 없으면 변수 0개로 취급한다.
func Load(path string) ([]config.EnvVariable, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("envfile.Load: %w", err)
	}
	return Parse(string(data), path)
}

// TrimQuotes는 양 끝이 같은 종류의 따옴표(" 또는 ')이면 벗겨낸다.
func TrimQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
