package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-bot/models"
)

const (
	addrA = "0x52908400098527886E0F7030069857D2E4169EE7"
	addrB = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"
)

func TestAddresses(t *testing.T) {
	post := models.Post{Content: "send to " + addrA + " or " + addrB}

	got := Addresses(post)
	assert.Equal(t, []string{addrA, addrB}, got)
}

func TestAddresses_Dedupes(t *testing.T) {
	post := models.Post{Content: addrA + " again: " + addrA}

	assert.Equal(t, []string{addrA}, Addresses(post))
}

func TestAddresses_IgnoresQuotedContent(t *testing.T) {
	post := models.Post{Content: `<div class="quoteheader"><a href="#">Quote</a></div>` +
		`<div class="quote">pay ` + addrA + `</div>own text, no address`}

	assert.Empty(t, Addresses(post), "quoted addresses are not the quoting author's")
}

func TestAddresses_RejectsMalformed(t *testing.T) {
	post := models.Post{Content: "0x1234 is too short and 0xZZ08400098527886E0F7030069857D2E4169EE7 is not hex"}

	assert.Empty(t, Addresses(post))
}

func TestAddressPostURL(t *testing.T) {
	link := "https://bitcointalk.org/index.php?topic=555.msg777#msg777"
	require.Equal(t, "555.msg777#msg777", AddressPostURL(link))
}
