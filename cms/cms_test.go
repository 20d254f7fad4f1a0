package cms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformBuildErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &TransformBuildError{Stage: "open-source", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "open-source")
}

func TestTransformRuntimeErrorUnwrap(t *testing.T) {
	cause := errors.New("bad buffer")
	err := &TransformRuntimeError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}
