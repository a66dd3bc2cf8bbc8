package aspects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentences(t *testing.T) {
	got := Sentences("First sentence. Second one! And a third?")
	assert.Equal(t, []string{"First sentence.", "Second one!", "And a third?"}, got)
}

func TestSentencesEmpty(t *testing.T) {
	assert.Nil(t, Sentences(""))
	assert.Nil(t, Sentences("   \n\t  "))
}

func TestSentencesAbbreviations(t *testing.T) {
	// UAX#29 treats "U.S." and "Inc." as sentence-internal.
	got := Sentences("Acme Inc. ships to the U.S. market. It is popular.")
	assert.Len(t, got, 2)
	assert.Contains(t, got[0], "U.S. market")
}

func TestSentencesSingle(t *testing.T) {
	got := Sentences("no terminal punctuation here")
	assert.Equal(t, []string{"no terminal punctuation here"}, got)
}
