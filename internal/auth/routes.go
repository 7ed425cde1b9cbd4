package auth

import (
	"net/http"
	"regexp"
)

// Access tells the Gate whether a route needs a session.
type Access int

const (
	// AccessOpen routes are not managed by the Gate at all.
	AccessOpen Access = iota
	// AccessPublic routes are managed but readable without a session.
	AccessPublic
	// AccessProtected routes require a valid session.
	AccessProtected
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	default:
		return "open"
	}
}

// Tree selects how a rejected request is answered: pages redirect to the
// login page, data endpoints reply 401.
type Tree int

const (
	TreeData Tree = iota
	TreePage
)

// Route is one row of the static route table.
type Route struct {
	// Name identifies the row in logs and metrics.
	Name    string
	Pattern *regexp.Regexp
	// Methods restricts the row to the listed methods. Empty means any.
	Methods []string
	Access  Access
	Tree    Tree
}

// Classification is the outcome of matching a request against the table.
type Classification struct {
	Name   string
	Access Access
	Tree   Tree
}

// RouteTable is an ordered list of routes; the first match wins.
type RouteTable []Route

var readMethods = []string{http.MethodGet, http.MethodHead}

// DefaultRoutes is the route table of the service. Single-CV reads by id are
// public on both trees; everything else under /api/cv and /cv needs a
// session.
func DefaultRoutes() RouteTable {
	return RouteTable{
		{Name: "/api/cv/:id", Pattern: regexp.MustCompile(`^/api/cv/[^/]+/?$`), Methods: readMethods, Access: AccessPublic, Tree: TreeData},
		{Name: "/cv/:id", Pattern: regexp.MustCompile(`^/cv/[^/]+/?$`), Methods: readMethods, Access: AccessPublic, Tree: TreePage},
		{Name: "/api/cv/*", Pattern: regexp.MustCompile(`^/api/cv(/.*)?$`), Access: AccessProtected, Tree: TreeData},
		{Name: "/api/auth/me", Pattern: regexp.MustCompile(`^/api/auth/me/?$`), Access: AccessProtected, Tree: TreeData},
		{Name: "/cv/*", Pattern: regexp.MustCompile(`^/cv(/.*)?$`), Access: AccessProtected, Tree: TreePage},
	}
}

// Classify matches method and path against the table. Unmatched paths are
// open.
func (t RouteTable) Classify(method, path string) Classification {
	for _, r := range t {
		if !r.Pattern.MatchString(path) {
			continue
		}
		if len(r.Methods) > 0 && !containsMethod(r.Methods, method) {
			continue
		}
		return Classification{Name: r.Name, Access: r.Access, Tree: r.Tree}
	}
	return Classification{Access: AccessOpen, Tree: TreeData}
}

func containsMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
