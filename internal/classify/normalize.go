// Package classify implements the rule-based message classification
// pipeline: markup normalization, work-relevance scoring, status-tag
// derivation, project/description extraction and exclusion filtering.
// Every function in the package is pure and total over string input.
package classify

import (
	"regexp"
	"strings"
)

var (
	userMentionExpr    = regexp.MustCompile(`<@U[A-Z0-9]+>`)
	channelMentionExpr = regexp.MustCompile(`<#C[A-Z0-9]+\|([^>]+)>`)
	wrappedLinkExpr    = regexp.MustCompile(`<(https?://[^>|]+)\|?[^>]*>`)
)

var broadcastTokens = strings.NewReplacer(
	"<!here>", "@here",
	"<!channel>", "@channel",
	"<!everyone>", "@everyone",
)

// Normalize strips platform markup from raw message text: user mentions are
// deleted, channel mentions become #name, wrapped links collapse to the bare
// URL and broadcast tokens become their @ form. Whitespace runs collapse to
// single spaces.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := userMentionExpr.ReplaceAllString(raw, "")
	text = channelMentionExpr.ReplaceAllString(text, "#$1")
	text = wrappedLinkExpr.ReplaceAllString(text, "$1")
	text = broadcastTokens.Replace(text)

	return strings.Join(strings.Fields(text), " ")
}
