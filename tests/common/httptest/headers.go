//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertHeaders compares response headers. An empty expected value means the
// header must be absent.
func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		if v == "" {
			assert.Empty(t, w.Header().Values(k), "header %s should be absent", k)
			continue
		}
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

func AssertHeaderMatches(t *testing.T, w *httptest.ResponseRecorder, key, pattern string) string {
	t.Helper()
	got := w.Header().Get(key)
	assert.Regexp(t, regexp.MustCompile(pattern), got, "header %s", key)
	return got
}
