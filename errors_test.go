package pagecache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStringAndUnwrap(t *testing.T) {
	wrapped := errors.New("disk full")
	e := &Error{Kind: KindWriteFailed, Position: 42, Err: wrapped}

	assert.Contains(t, e.Error(), "write_failed")
	assert.Contains(t, e.Error(), "42")
	assert.Contains(t, e.Error(), "disk full")
	assert.Same(t, wrapped, errors.Unwrap(e))

	bare := &Error{Kind: KindDuplicatePosition, Position: 1}
	assert.NotContains(t, bare.Error(), "<nil>")
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindDuplicatePosition: "duplicate_position",
		KindUnlinkViolation:   "unlink_violation",
		KindWriteFailed:       "write_failed",
		KindCannotEvict:       "cannot_evict",
		Kind(99):              "unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}
