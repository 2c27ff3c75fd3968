package brands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowsNormalizesBothSides(t *testing.T) {
	list := NewAllowList([]string{"norev", " Esval  Model ", "MITICA-R"})

	assert.True(t, list.Allows("NOREV"))
	assert.True(t, list.Allows("  norev "))
	assert.True(t, list.Allows("ESVAL MODEL"))
	assert.True(t, list.Allows("esval  model"))
	assert.True(t, list.Allows("mitica-r"))

	assert.False(t, list.Allows("NOT-ALLOWED"))
	assert.False(t, list.Allows("MITICA")) // prefix of a member is not a member
	assert.False(t, list.Allows(""))
}

func TestNamesDeduplicatedInOrder(t *testing.T) {
	list := NewAllowList([]string{"Norev", "SCHUCO", "norev", "", "  "})

	assert.Equal(t, []string{"NOREV", "SCHUCO"}, list.Names())
	assert.Equal(t, 2, list.Len())
}

func TestEmptyListAllowsNothing(t *testing.T) {
	list := NewAllowList(nil)

	assert.Equal(t, 0, list.Len())
	assert.False(t, list.Allows("NOREV"))
}
