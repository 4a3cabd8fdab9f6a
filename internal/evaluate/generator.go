package evaluate

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Defaults used by the evaluate command.
const (
	DefaultSampleCount    = 12000
	DefaultMaliciousRatio = 0.3
)

// Sample is a URL with its ground truth.
type Sample struct {
	URL       string `json:"url"`
	Malicious bool   `json:"malicious"`
}

var (
	genuineDomains = []string{
		"google.com", "github.com", "stackoverflow.com", "wikipedia.org",
		"microsoft.com", "apple.com", "amazon.com", "facebook.com",
		"youtube.com", "twitter.com", "linkedin.com", "instagram.com",
		"reddit.com", "netflix.com", "paypal.com", "spotify.com",
	}

	// The empty path yields a bare domain.
	genuinePaths = []string{
		"", "/search", "/users", "/products", "/articles", "/download",
		"/help", "/support", "/blog", "/news", "/features", "/pricing",
	}

	lureBrands = []string{
		"bank", "paypal", "facebook", "amazon", "microsoft",
		"apple", "whatsapp", "instagram", "twitter", "netflix",
	}

	lurePatterns = []string{
		"secure-login", "password-reset", "account-verify", "security-update",
		"verification-code", "billing-alert", "payment-confirm", "login-secure",
	}

	riskyTLDs = []string{".xyz", ".top", ".club", ".gq", ".ml", ".tk", ".cf", ".ga"}
)

// Generator produces synthetic labelled URLs. The same seed always yields
// the same sequence. A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Genuine returns a URL on a well-known domain over HTTPS.
func (g *Generator) Genuine() Sample {
	domain := pick(g.rng, genuineDomains)
	path := pick(g.rng, genuinePaths)

	var resource string
	if path != "" {
		resource = fmt.Sprintf("/resource%d", g.rng.IntN(1000))
	}
	return Sample{URL: "https://www." + domain + path + resource}
}

// Malicious returns a brand-impersonating URL on a high-risk TLD over
// plain HTTP.
func (g *Generator) Malicious() Sample {
	return Sample{
		URL: fmt.Sprintf("http://%s-%s%d%s",
			pick(g.rng, lureBrands),
			pick(g.rng, lurePatterns),
			g.rng.IntN(1000),
			pick(g.rng, riskyTLDs),
		),
		Malicious: true,
	}
}

// Bulk returns count samples, floor(count*maliciousRatio) of them malicious,
// in shuffled order.
func (g *Generator) Bulk(count int, maliciousRatio float64) ([]Sample, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if math.IsNaN(maliciousRatio) || maliciousRatio < 0 || maliciousRatio > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, maliciousRatio)
	}

	malicious := int(math.Floor(float64(count) * maliciousRatio))
	samples := make([]Sample, 0, count)
	for range count - malicious {
		samples = append(samples, g.Genuine())
	}
	for range malicious {
		samples = append(samples, g.Malicious())
	}

	g.rng.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
	return samples, nil
}

func pick(rng *rand.Rand, s []string) string {
	return s[rng.IntN(len(s))]
}
