package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "plain name", escapeMarkdownV2("plain name"))
	assert.Equal(t, "J\\. Doe \\(host\\)", escapeMarkdownV2("J. Doe (host)"))
	assert.Equal(t, "a\\_b\\*c\\`d", escapeMarkdownV2("a_b*c`d"))
	assert.Equal(t, "back\\\\slash", escapeMarkdownV2("back\\slash"))
}
