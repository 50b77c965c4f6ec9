package news

// Feed is a registered RSS feed endpoint.
type Feed struct {
	URL    string
	Source Source
}

// Feeds is the static registry of scraped feeds. Adding a source means
// extending this list.
var Feeds = []Feed{
	{URL: "https://www.espn.com/espn/rss/nba/news", Source: SourceESPN},
	{URL: "https://basketball.realgm.com/rss/wiretap/0/0.xml", Source: SourceRealGM},
}
