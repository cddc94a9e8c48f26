package views

import (
	"strings"

	"github.com/mileusna/useragent"
)

// botPatterns are user-agent substrings that classify a request as
// automated traffic: generic crawler terms, named crawlers, and common
// HTTP client libraries. Matching is case-insensitive.
var botPatterns = []string{
	"bot",
	"crawler",
	"spider",
	"slurp",
	"mediapartners",
	"facebookexternalhit",
	"linkedinbot",
	"twitterbot",
	"whatsapp",
	"telegram",
	"curl",
	"wget",
	"python",
	"go-http-client",
	"java/",
	"apache-httpclient",
	"httpx",
	"axios",
	"node-fetch",
	"googlebot",
	"bingbot",
	"yandexbot",
	"duckduckbot",
	"baiduspider",
	"sogou",
	"exabot",
	"ahrefsbot",
	"semrushbot",
	"dotbot",
	"petalbot",
	"mj12bot",
}

// IsBot classifies a user-agent string as automated traffic. An empty
// user agent is suspicious and counts as a bot. The denylist is a
// heuristic; a structural UA parse catches crawlers that miss it.
func IsBot(ua string) bool {
	if ua == "" {
		return true
	}

	lower := strings.ToLower(ua)
	for _, pattern := range botPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return useragent.Parse(ua).Bot
}
