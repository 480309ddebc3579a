package setup

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunShellSelect는 셸을 감지하지 못했을 때 지원 셸 목록에서 선택 UI를 표시한다.
	RunShellSelect(shells []string) (string, error)

	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)
}

// Result는 hook 설치 결과다.
type Result struct {
	// Shell은 설치 대상 셸 이름이다.
	Shell string
	// HookPath는 hook 스크립트가 쓰인 경로다.
	HookPath string
	// ProfilePath는 source 줄이 들어간 셸 설정 파일 경로다.
	ProfilePath string
	// SourceAdded는 이번 실행에서 source 줄을 새로 추가했는지 여부다.
	SourceAdded bool
}
