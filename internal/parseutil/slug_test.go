package parseutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDashedSlug(t *testing.T) {
	assert.Equal(t, "cafe-creme-sa", DashedSlug("  Café Crème SA "))
	assert.Equal(t, "l-oreal", DashedSlug("L'Oréal"))
	assert.Equal(t, "acme", DashedSlug("--Acme--"))
	assert.Equal(t, "", DashedSlug("!!!"))
}

func TestHandleSlug(t *testing.T) {
	assert.Equal(t, "cafecreme", HandleSlug("Café Crème"))
	assert.Equal(t, "loreal", HandleSlug("L'Oréal"))
	assert.Equal(t, "dev.first_io", HandleSlug("Dev.First_IO!"))
}
