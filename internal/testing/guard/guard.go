package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("AYLF_TEST_MODE") == "" {
			_ = os.Setenv("AYLF_TEST_MODE", "1")
		}
	})
}
