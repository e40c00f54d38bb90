package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptySetAllowsAnyIP(t *testing.T) {
	s := NewPermittedClientSet(nil)

	assert := assert.New(t)
	assert.True(s.AllowsAny())
	assert.True(s.Permitted("10.0.0.5"))
	assert.True(s.Permitted("definitely not an ip"))
}

func TestFiniteSetIsExactMembership(t *testing.T) {
	s := NewPermittedClientSet([]string{"192.168.1.10", "10.0.0.5"})

	assert := assert.New(t)
	assert.False(s.AllowsAny())
	assert.True(s.Permitted("10.0.0.5"))
	assert.False(s.Permitted("10.0.0.6"))
	// no prefix matching
	assert.False(s.Permitted("10.0.0."))
	assert.False(s.Permitted("192.168.1"))
}

func TestBlankEntriesAreIgnored(t *testing.T) {
	s := NewPermittedClientSet([]string{" ", ""})

	assert.True(t, s.AllowsAny())
}

func TestEntriesAreTrimmed(t *testing.T) {
	s := NewPermittedClientSet([]string{" 10.0.0.5 "})

	assert.True(t, s.Permitted("10.0.0.5"))
}
