package trigger

import (
	"net/url"
	"strings"
)

// PathPrefix is the inbound path of a lifeline's deliveries
func (m Mode) PathPrefix() string {
	if m == Manual {
		return "/webhook-test"
	}
	return "/webhook"
}

// CallbackURL is the URL SalesSuite posts a node's events to
func CallbackURL(publicURL string, mode Mode, nodeID string) string {
	return strings.TrimRight(publicURL, "/") + mode.PathPrefix() + "/" + url.PathEscape(nodeID)
}
