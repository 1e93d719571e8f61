package reporterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "FetchError: query failed", New(FetchError, "query failed", nil).Error())

	cause := errors.New("status 401")
	err := Newf(FetchError, cause, "server %s", "web-1")
	assert.Equal(t, "FetchError: server web-1: status 401", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("site a: %w", New(ConfigurationError, "no servers", nil))
	assert.True(t, IsKind(err, ConfigurationError))
	assert.False(t, IsKind(err, FetchError))
	assert.False(t, IsKind(errors.New("plain"), FetchError))
}
