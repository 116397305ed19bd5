package sentinel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMiss(t *testing.T) {
	assert.True(t, IsMiss(ErrNotFound))
	assert.True(t, IsMiss(fmt.Errorf("result 42: %w", ErrExpired)))
	assert.False(t, IsMiss(ErrUnavailable))
	assert.False(t, IsMiss(errors.New("boom")))
	assert.False(t, IsMiss(nil))
}
