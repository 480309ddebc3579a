package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbjs97/cdwe/internal/config"
)

// Cache는 디렉토리 경로별로 미리 계산된 설정 묶음이다.
// Hash가 현재 설정 원문의 해시와 같을 때만 유효하다. mtime은 보지 않는다.
type Cache struct {
	Shell  string              `json:"shell"`
	Hash   string              `json:"hash"`
	Values map[string]DirCache `json:"values"`
}

// DirCache는 한 경로에 직접 선언된 내용이다.
type DirCache struct {
	Variables []config.EnvVariable `json:"variables"`
	Run       []string             `json:"run"`
	Aliases   []config.EnvAlias    `json:"aliases"`
	LoadFrom  []string             `json:"load_from"`
}

// New는 빈 캐시를 생성한다.
func New(shell, hash string) *Cache {
	return &Cache{Shell: shell, Hash: hash, Values: make(map[string]DirCache)}
}

// Get은 path와 정확히 같은 키만 조회한다. 접두 검색은 하지 않는다.
func (c *Cache) Get(path string) (DirCache, bool) {
	if c == nil {
		return DirCache{}, false
	}
	d, ok := c.Values[path]
	return d, ok
}

// ContentHash는 설정 원문의 sha256 hex 다이제스트다.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Decode는 캐시 파일 내용을 해석한다.
func Decode(data []byte) (*Cache, error) {
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cache.Decode: %w", err)
	}
	if c.Values == nil {
		c.Values = make(map[string]DirCache)
	}
	return &c, nil
}

// ReadFile은 캐시 파일을 읽는다. 파일이 없거나 읽을 수 없으면 nil이다 (캐시 미스와 동일).
func ReadFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// GetOrCreate는 existing이 해석 가능하고 해시가 configHash와 같으면 그대로 반환한다.
// 그 밖에는 build로 새 캐시를 만들고 rebuilt=true를 반환한다.
// 기존 캐시의 해석 실패는 캐시 없음과 같게 취급한다.
func GetOrCreate(existing []byte, configHash string, build func() (*Cache, error)) (c *Cache, rebuilt bool, err error) {
	if len(existing) > 0 {
		if prev, err := Decode(existing); err == nil && prev.Hash == configHash {
			return prev, false, nil
		}
	}
	c, err = build()
	if err != nil {
		return nil, false, fmt.Errorf("cache.GetOrCreate: %w", err)
	}
	return c, true, nil
}

// Save는 캐시를 JSON 파일로 저장한다 (0600 권한).
// 임시 파일에 쓴 뒤 rename하므로 동시에 읽는 쪽이 반쯤 쓰인 파일을 보지 않는다.
func (c *Cache) Save(path string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cache.Save: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("cache.Save: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cdwe_cache-*.tmp")
	if err != nil {
		return fmt.Errorf("cache.Save: %w", err)
	}
	defer os.Remove(tmp.Name()) // rename 성공 후에는 no-op
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache.Save: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("cache.Save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache.Save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cache.Save: %w", err)
	}
	return nil
}
