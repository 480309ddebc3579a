package cli

import (
	"errors"

	"github.com/hbjs97/cdwe/internal/config"
	"github.com/hbjs97/cdwe/internal/envfile"
	"github.com/hbjs97/cdwe/internal/shell"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
	// ErrMalformedEnvFile은 import 파일에 KEY=VALUE가 아닌 줄이 있을 때의 sentinel error다.
	ErrMalformedEnvFile = envfile.ErrMalformed
	// ErrUnknownShell은 alias를 정의할 수 없는 셸일 때의 sentinel error다.
	ErrUnknownShell = shell.ErrUnknownShell
	// ErrNoHome은 홈 디렉토리를 알 수 없을 때의 sentinel error다.
	ErrNoHome = errors.New("$HOME을 확인할 수 없음")
	// ErrDoctorFailed는 doctor 진단에 실패 항목이 있을 때의 sentinel error다.
	ErrDoctorFailed = errors.New("진단 실패 항목 있음")
)
