package cli

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`(ghp_|gho_|github_pat_|ghs_|ghu_|glpat-|xox[bp]-)\S+`)

var secretNameHints = []string{"TOKEN", "SECRET", "PASSWORD", "PASSWD", "API_KEY", "PRIVATE_KEY", "CREDENTIAL"}

// MaskTokens는 잘 알려진 토큰 접두사 뒤의 값을 마스킹한다.
func MaskTokens(s string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		prefix := tokenPattern.FindStringSubmatch(match)[1]
		return prefix + "****"
	})
}

// MaskValue는 변수 이름이 비밀값처럼 보이면 값 전체를, 아니면 토큰 부분만 마스킹한다.
func MaskValue(name, value string) string {
	upper := strings.ToUpper(name)
	for _, hint := range secretNameHints {
		if strings.Contains(upper, hint) && value != "" {
			return "****"
		}
	}
	return MaskTokens(value)
}
