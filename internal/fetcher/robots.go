package fetcher

import (
	"bufio"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RobotsGroup is one User-agent block of a robots.txt file
type RobotsGroup struct {
	UserAgent  string
	Disallowed []string
	CrawlDelay time.Duration
}

// Robots holds parsed robots.txt rules. The zero value allows everything.
type Robots struct {
	groups []RobotsGroup
}

// ParseRobots parses robots.txt content
func ParseRobots(reader io.Reader) (*Robots, error) {
	robots := &Robots{}
	scanner := bufio.NewScanner(reader)
	var current *RobotsGroup

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if current != nil {
				robots.groups = append(robots.groups, *current)
			}
			current = &RobotsGroup{UserAgent: value}

		case "disallow":
			if current != nil && value != "" {
				current.Disallowed = append(current.Disallowed, value)
			}

		case "crawl-delay":
			if current != nil {
				if seconds, err := strconv.ParseFloat(value, 64); err == nil && seconds > 0 {
					current.CrawlDelay = time.Duration(seconds * float64(time.Second))
				}
			}
		}
	}

	if current != nil {
		robots.groups = append(robots.groups, *current)
	}

	return robots, scanner.Err()
}

// Groups returns the parsed user-agent groups
func (r *Robots) Groups() []RobotsGroup {
	return r.groups
}

// Allowed reports whether userAgent may fetch rawURL. Groups naming the agent
// and wildcard groups both apply.
func (r *Robots) Allowed(rawURL, userAgent string) bool {
	if len(r.groups) == 0 {
		return true
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}

	for _, group := range r.groups {
		if group.UserAgent != "*" && !strings.EqualFold(group.UserAgent, userAgent) {
			continue
		}
		for _, pattern := range group.Disallowed {
			if matchesPattern(path, pattern) {
				return false
			}
		}
	}

	return true
}

// CrawlDelay returns the delay for userAgent, preferring its own group over "*"
func (r *Robots) CrawlDelay(userAgent string) time.Duration {
	var wildcard time.Duration
	for _, group := range r.groups {
		if strings.EqualFold(group.UserAgent, userAgent) && group.CrawlDelay > 0 {
			return group.CrawlDelay
		}
		if group.UserAgent == "*" && group.CrawlDelay > 0 && wildcard == 0 {
			wildcard = group.CrawlDelay
		}
	}
	return wildcard
}

// matchesPattern checks if a path matches a robots.txt pattern
func matchesPattern(path, pattern string) bool {
	if pattern == "" {
		return false
	}

	if strings.Contains(pattern, "*") {
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*")
		if matched, _ := regexp.MatchString(expr, path); matched {
			return true
		}
	}

	return strings.HasPrefix(path, pattern)
}
