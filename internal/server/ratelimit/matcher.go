package ratelimit

import "strings"

// MatchEndpoint finds the endpoint config matching the given path and
// method. Exact path matches win over prefix matches; among prefix matches
// the longest wins. Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	bestLen := -1

	for i := range configs {
		c := &configs[i]
		if c.Method != "" && c.Method != method {
			continue
		}

		switch {
		case c.Path == path:
			return c
		case strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path):
			if len(c.Path) > bestLen {
				best = c
				bestLen = len(c.Path)
			}
		}
	}

	return best
}
