package access

import "strings"

// PermittedClientSet decides whether a client IP may talk to the server at
// all. An empty set is the allow-any sentinel: a plain local run shouldn't
// force the user to enumerate their own interfaces. The set is built once at
// startup and never mutated while serving.
type PermittedClientSet struct {
	ips map[string]struct{}
}

func NewPermittedClientSet(ips []string) *PermittedClientSet {
	s := &PermittedClientSet{ips: make(map[string]struct{})}
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}
		s.ips[ip] = struct{}{}
	}
	return s
}

// AllowsAny reports whether the set is the allow-any sentinel.
func (s *PermittedClientSet) AllowsAny() bool {
	return len(s.ips) == 0
}

// Permitted is an exact membership test, not a prefix or CIDR match.
func (s *PermittedClientSet) Permitted(ip string) bool {
	if s.AllowsAny() {
		return true
	}
	_, ok := s.ips[ip]
	return ok
}
