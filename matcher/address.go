package matcher

import (
	"regexp"

	"forum-bot/models"
	"forum-bot/parser"
)

var (
	ethAddressRe = regexp.MustCompile(`\b0x[0-9a-fA-F]{40}\b`)
	topicPrefix  = regexp.MustCompile(`^.*index\.php\?topic=`)
)

// Addresses extracts the distinct ETH addresses appearing in a post's
// cleaned body. Quote blocks are stripped first so quoted addresses are
// not attributed to the quoting author.
func Addresses(post models.Post) []string {
	matches := ethAddressRe.FindAllString(parser.PlainText(post.Content), -1)
	if matches == nil {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var out []string
	for _, addr := range matches {
		if seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

// AddressPostURL reduces a post link to the topic-relative key the address
// index stores ("5123456.msg56789#msg56789").
func AddressPostURL(link string) string {
	return topicPrefix.ReplaceAllString(link, "")
}
