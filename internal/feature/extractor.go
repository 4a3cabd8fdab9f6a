package feature

import (
	"math"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// suspiciousKeywords are lure words commonly found in credential phishing URLs.
// Each keyword counts at most once per URL.
var suspiciousKeywords = []string{
	"login", "secure", "verify", "account", "banking", "password",
	"update", "confirm", "billing", "payment", "security", "alert",
}

// specialChars is the set of punctuation counted by the special_chars feature.
const specialChars = "~!@#$%^&*()_+={}|[]:;<>?,"

// dottedQuad matches an IPv4 address embedded anywhere in a host name,
// e.g. "10.0.0.1.example.com".
var dottedQuad = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// Extract derives the feature vector for rawURL. It never fails: input that
// cannot be parsed into a host produces a Vector with Malformed set.
func Extract(rawURL string) Vector {
	raw := strings.TrimSpace(rawURL)

	// cases.Caser keeps internal state, so a fresh one is created per call.
	lowered := cases.Lower(language.Und).String(raw)

	v := Vector{
		Length:             utf8.RuneCountInString(raw),
		SuspiciousKeywords: countKeywords(lowered),
		SpecialChars:       countSpecialChars(raw),
		HasAtSymbol:        strings.Contains(raw, "@"),
	}

	u, ok := parse(raw)
	if !ok {
		v.Malformed = true
		return v
	}

	host := strings.TrimSuffix(cases.Lower(language.Und).String(u.Hostname()), ".")
	if hasNonASCII(host) {
		v.IsIDN = true
		if ascii, err := idna.Lookup.ToASCII(host); err == nil {
			host = ascii
		}
	} else if hasPunycodeLabel(host) {
		v.IsIDN = true
	}

	v.HasHTTPS = strings.EqualFold(u.Scheme, "https")
	v.HasPort = u.Port() != ""
	v.NumDots = strings.Count(host, ".")
	v.NumHyphens = strings.Count(host, "-")
	v.HasIP = isIP(host)
	v.Entropy = shannonEntropy(host)
	v.PathDepth = pathDepth(u.Path)

	if !v.HasIP {
		v.TLD = topLevelDomain(host)
		v.SubdomainCount = subdomainCount(host)
	}

	return v
}

// parse turns raw into a URL with a usable host. Scheme-less input such as
// "example.com/login" is interpreted as http.
func parse(raw string) (*url.URL, bool) {
	if raw == "" {
		return nil, false
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return nil, false
	}

	host := u.Hostname()
	if host == "" || !validHost(host) {
		return nil, false
	}
	return u, true
}

// validHost reports whether host contains only characters that can appear in
// a DNS name or an IP literal. Non-ASCII runes are allowed for IDNs.
func validHost(host string) bool {
	for _, r := range host {
		switch {
		case r >= utf8.RuneSelf:
			if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r) {
				return false
			}
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_', r == ':', r == '%':
		default:
			return false
		}
	}
	return true
}

func countKeywords(lowered string) int {
	n := 0
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lowered, kw) {
			n++
		}
	}
	return n
}

func countSpecialChars(s string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			n++
		}
	}
	return n
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

func hasPunycodeLabel(host string) bool {
	for _, label := range strings.Split(host, ".") {
		if strings.HasPrefix(label, "xn--") {
			return true
		}
	}
	return false
}

func isIP(host string) bool {
	if _, err := netip.ParseAddr(host); err == nil {
		return true
	}
	return dottedQuad.MatchString(host)
}

// pathDepth counts path separators. An empty path is treated as "/".
func pathDepth(p string) int {
	if p == "" {
		p = "/"
	}
	return strings.Count(p, "/")
}

// topLevelDomain returns the last label of host, or "" for single-label hosts.
func topLevelDomain(host string) string {
	i := strings.LastIndexByte(host, '.')
	if i < 0 || i == len(host)-1 {
		return ""
	}
	return host[i+1:]
}

// subdomainCount returns how many labels precede the registrable domain,
// e.g. 2 for "a.b.example.co.uk".
func subdomainCount(host string) int {
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return 0
	}
	n := strings.Count(host, ".") - strings.Count(etld1, ".")
	if n < 0 {
		return 0
	}
	return n
}

// shannonEntropy returns the entropy of s in bits per rune.
// Counts are accumulated in first-seen order so the floating point sum is
// identical across calls.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}

	index := make(map[rune]int)
	var counts []int
	total := 0
	for _, r := range s {
		total++
		if i, ok := index[r]; ok {
			counts[i]++
			continue
		}
		index[r] = len(counts)
		counts = append(counts, 1)
	}

	var h float64
	for _, c := range counts {
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
