package crawler

import (
	"net/url"
	"strings"
)

// LinkKind is the category a raw href falls into
type LinkKind int

const (
	// LinkRejected covers "#", javascript:, tel:, malformed mailto and unparseable hrefs
	LinkRejected LinkKind = iota
	// LinkInternal is a same-domain page to enqueue
	LinkInternal
	// LinkExternal is an off-domain link to record and probe once
	LinkExternal
	// LinkMailto is a mailto whose address domain is foreign
	LinkMailto
	// LinkExcluded is an off-domain link on the exclusion list
	LinkExcluded
)

func (k LinkKind) String() string {
	switch k {
	case LinkInternal:
		return "internal"
	case LinkExternal:
		return "external"
	case LinkMailto:
		return "mailto"
	case LinkExcluded:
		return "excluded"
	default:
		return "rejected"
	}
}

// Classification is the outcome of classifying one href.
// Target holds the URL key for internal and external links, and the
// raw href for mailto candidates.
type Classification struct {
	Kind   LinkKind
	Target string
}

// Classifier decides what to do with hrefs found on pages of one site
type Classifier struct {
	domain   string
	excluded []string
}

// NewClassifier binds a classifier to the target domain
func NewClassifier(domain string, excluded []string) *Classifier {
	return &Classifier{domain: domain, excluded: excluded}
}

// Domain returns the target domain
func (c *Classifier) Domain() string {
	return c.domain
}

// Classify has no side effects
func (c *Classifier) Classify(page *url.URL, href string) Classification {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)

	if href == "#" || strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "tel:") {
		return Classification{Kind: LinkRejected}
	}

	if strings.HasPrefix(lower, "mailto:") {
		return c.classifyMailto(href)
	}

	ref, err := url.Parse(href)
	if err != nil {
		return Classification{Kind: LinkRejected}
	}
	resolved := page.ResolveReference(ref)
	host := NormalizeHost(resolved.Host)
	key := URLKey(resolved)

	switch {
	case host == "" || strings.Contains(host, c.domain):
		return Classification{Kind: LinkInternal, Target: key}
	case IsExcluded(host, c.excluded):
		return Classification{Kind: LinkExcluded}
	default:
		return Classification{Kind: LinkExternal, Target: key}
	}
}

func (c *Classifier) classifyMailto(href string) Classification {
	_, emailDomain, found := strings.Cut(href, "@")
	if !found {
		return Classification{Kind: LinkRejected}
	}
	// Only the part up to the next "@" counts as the domain
	emailDomain, _, _ = strings.Cut(emailDomain, "@")
	if strings.Contains(strings.ToLower(emailDomain), c.domain) {
		return Classification{Kind: LinkRejected}
	}
	return Classification{Kind: LinkMailto, Target: href}
}
