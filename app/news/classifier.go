package news

import (
	"strings"
)

// Trade keywords are checked before signing keywords: a headline mentioning
// both (e.g. a trade that includes a new contract) counts as a trade.
var tradeKeywords = []string{
	"trade", "traded", "trading", "acquire", "acquired", "deal",
	"swap", "move", "moving", "sent to", "ships", "sending",
}

var signingKeywords = []string{
	"sign", "signed", "signing", "agree", "agreed", "contract",
	"extension", "buyout", "waive", "waived", "release", "released",
	"re-sign", "resign", "pick up option", "decline option",
}

// Classify determines the category of a news item from its title and
// description. Matching is case-insensitive substring search.
func Classify(title, description string) Category {
	text := strings.ToLower(title) + " " + strings.ToLower(description)

	for _, keyword := range tradeKeywords {
		if strings.Contains(text, keyword) {
			return CategoryTrade
		}
	}

	for _, keyword := range signingKeywords {
		if strings.Contains(text, keyword) {
			return CategorySigning
		}
	}

	return CategoryOther
}
