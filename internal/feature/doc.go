// Package feature converts a URL string into the fixed feature vector consumed
// by the phishing classifier.
//
// Extraction is a pure function of the input text. It never performs DNS
// lookups or HTTP requests, so the same URL always produces the same Vector
// and scoring stays deterministic and testable.
//
// Malformed input never fails extraction. A URL that cannot be parsed into a
// host yields a degenerate Vector with Malformed set, HTTPS cleared and all
// host-derived signals zeroed. Lexical signals (length, keywords, special
// characters) are still computed from the raw text.
//
// # Signals
//
//   - lexical: length, special characters, "@" presence, suspicious keywords
//   - transport: HTTPS scheme, explicit port
//   - host: dots, hyphens, IP literal, TLD, entropy, IDN, subdomain depth
//   - path: directory depth
//
// Host handling relies on golang.org/x/net/idna for internationalized names
// and golang.org/x/net/publicsuffix for the registrable domain.
package feature
