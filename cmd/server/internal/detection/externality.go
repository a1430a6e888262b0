package detection

import "strings"

// IsExternal reports whether any participant email resolves to a domain
// outside the internal set. Participants without a parseable domain are
// ignored; an empty participant list is internal. The boolean is
// order-independent even though evaluation short-circuits.
func IsExternal(participants []Participant, internalDomains map[string]struct{}) bool {
	for _, p := range participants {
		domain := p.Domain()
		if domain == "" {
			continue
		}
		if _, ok := internalDomains[domain]; !ok {
			return true
		}
	}
	return false
}

// InternalDomainSet builds the lookup set from configured domains.
func InternalDomainSet(domains []string) map[string]struct{} {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		if d != "" {
			set[strings.ToLower(d)] = struct{}{}
		}
	}
	return set
}
