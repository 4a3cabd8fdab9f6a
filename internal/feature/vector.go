package feature

// Feature names in the order returned by Vector.Values.
// Model artifacts refer to features by these names.
const (
	NameLength             = "length"
	NameHasHTTPS           = "has_https"
	NameNumDots            = "num_dots"
	NameNumHyphens         = "num_hyphens"
	NameHasIP              = "has_ip"
	NameSuspiciousKeywords = "suspicious_keywords"
	NameEntropy            = "entropy"
	NamePathDepth          = "path_depth"
	NameHasPort            = "has_port"
	NameSpecialChars       = "special_chars"
	NameHasAtSymbol        = "has_at_symbol"
	NameIsIDN              = "is_idn"
	NameSubdomainCount     = "subdomain_count"
	NameMalformed          = "malformed"
)

// names is the canonical ordering of numeric features.
var names = []string{
	NameLength,
	NameHasHTTPS,
	NameNumDots,
	NameNumHyphens,
	NameHasIP,
	NameSuspiciousKeywords,
	NameEntropy,
	NamePathDepth,
	NameHasPort,
	NameSpecialChars,
	NameHasAtSymbol,
	NameIsIDN,
	NameSubdomainCount,
	NameMalformed,
}

// Names returns the numeric feature names in vector order.
// The returned slice is a copy and may be modified by the caller.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// IsKnown reports whether name is a numeric feature produced by Extract.
func IsKnown(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Vector holds the heuristic signals derived from a single URL.
// TLD is the only categorical signal; every other field maps to one numeric
// value in Values.
type Vector struct {
	Length             int     `json:"length"`
	HasHTTPS           bool    `json:"has_https"`
	NumDots            int     `json:"num_dots"`
	NumHyphens         int     `json:"num_hyphens"`
	HasIP              bool    `json:"has_ip"`
	TLD                string  `json:"tld"`
	SuspiciousKeywords int     `json:"suspicious_keywords"`
	Entropy            float64 `json:"entropy"`
	PathDepth          int     `json:"path_depth"`
	HasPort            bool    `json:"has_port"`
	SpecialChars       int     `json:"special_chars"`
	HasAtSymbol        bool    `json:"has_at_symbol"`
	IsIDN              bool    `json:"is_idn"`
	SubdomainCount     int     `json:"subdomain_count"`
	Malformed          bool    `json:"malformed"`
}

// Values returns the numeric features in the order given by Names.
// Booleans are encoded as 0 or 1.
func (v Vector) Values() []float64 {
	return []float64{
		float64(v.Length),
		boolToFloat(v.HasHTTPS),
		float64(v.NumDots),
		float64(v.NumHyphens),
		boolToFloat(v.HasIP),
		float64(v.SuspiciousKeywords),
		v.Entropy,
		float64(v.PathDepth),
		boolToFloat(v.HasPort),
		float64(v.SpecialChars),
		boolToFloat(v.HasAtSymbol),
		boolToFloat(v.IsIDN),
		float64(v.SubdomainCount),
		boolToFloat(v.Malformed),
	}
}

// Map returns the numeric features keyed by name.
func (v Vector) Map() map[string]float64 {
	values := v.Values()
	m := make(map[string]float64, len(values))
	for i, name := range names {
		m[name] = values[i]
	}
	return m
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
