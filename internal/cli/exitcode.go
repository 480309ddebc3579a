package cli

import (
	"errors"
)

// ExitCode는 cdwe의 종료 코드다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 5
	// ExitEnvError는 $HOME 같은 실행 환경 오류다.
	ExitEnvError ExitCode = 6
	// ExitEnvFileError는 import 파일 형식 오류다.
	ExitEnvFileError ExitCode = 7
	// ExitShellError는 지원하지 않는 셸이다.
	ExitShellError ExitCode = 8
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrNoHome):
		return ExitEnvError
	case errors.Is(err, ErrMalformedEnvFile):
		return ExitEnvFileError
	case errors.Is(err, ErrUnknownShell):
		return ExitShellError
	default:
		return ExitGeneral
	}
}
