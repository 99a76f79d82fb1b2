package ua

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.6422.112 Safari/537.36"

func TestParse_DesktopChrome(t *testing.T) {
	info := Parse(chromeMac)

	assert.Equal(t, "Chrome", info.Browser)
	assert.Equal(t, "125.0.6422", info.Version)
	assert.Equal(t, "Desktop", info.Device)
	assert.False(t, info.IsBot)
	assert.Equal(t, "Chrome 125 on "+info.OS, info.Label())
}

func TestParse_Bot(t *testing.T) {
	info := Parse("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.True(t, info.IsBot)
	assert.Equal(t, "Bot", info.Device)
}

func TestParse_Empty(t *testing.T) {
	info := Parse("")
	assert.False(t, info.IsBot)
	assert.Equal(t, "", info.Version)
	assert.NotEmpty(t, info.Device)
}
