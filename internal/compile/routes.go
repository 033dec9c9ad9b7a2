package compile

import (
	"regexp"
	"sort"
	"strings"
)

var (
	pageSuffix  = regexp.MustCompile(`(^|/)page\.(tsx|ts|jsx|js)$`)
	routeSuffix = regexp.MustCompile(`(^|/)route\.(ts|js)$`)
)

// RouteMap derives URL-ish routes from files under an "app/"-style
// directory by stripping page/route filename suffixes. Each entry is
// "<route> -> <file>", sorted.
func RouteMap(files map[string]string) []string {
	var routes []string
	for p := range files {
		rest, ok := underAppDir(p)
		if !ok {
			continue
		}

		route := pageSuffix.ReplaceAllString(rest, "")
		route = routeSuffix.ReplaceAllString(route, "")
		if route == "" {
			route = "/"
		} else {
			route = "/" + route
		}
		routes = append(routes, route+" -> "+p)
	}
	sort.Strings(routes)
	return routes
}

// underAppDir returns the path remainder below the first "app/" segment.
func underAppDir(p string) (string, bool) {
	if idx := strings.Index(p, "/app/"); idx >= 0 {
		return p[idx+len("/app/"):], true
	}
	if strings.HasPrefix(p, "app/") {
		return p[len("app/"):], true
	}
	return "", false
}
