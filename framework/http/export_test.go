package http

import "testing"

// SetMaxBody lowers the request body limit for the duration of a test.
func SetMaxBody(t *testing.T, n int64) {
	t.Helper()
	prev := maxBody
	maxBody = n
	t.Cleanup(func() { maxBody = prev })
}
