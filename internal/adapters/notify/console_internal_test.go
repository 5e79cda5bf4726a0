package notify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCompactName(t *testing.T) {
	assert.Equal(t, "Chaos Orb", compactName("Chaos Orb", 40))
	assert.Equal(t, "Kaom's Heart…", compactName("Kaom's Heart (Corrupted)", 14))
}

func TestCompactName_MultibyteRunes(t *testing.T) {
	name := strings.Repeat("é", 30)

	got := compactName(name, 10)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 10)+"…", got)
}

func TestCompactName_MultibyteWithSpaces(t *testing.T) {
	got := compactName("Ünïqüé Ĉhärm Ōf Ŧhé Ŵïld", 16)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Ünïqüé Ĉhärm Ōf…", got)
}
