// Package model wraps the pre-trained URL classifier.
//
// The classifier is trained offline and shipped as an artifact; this package
// only loads and evaluates it. A Model is read-only after loading and may be
// shared by any number of goroutines.
//
// The bundled implementation is a logistic model described by a YAML
// artifact (see default.yaml). The default artifact is embedded in the binary;
// Load accepts a path to replace it at startup.
package model
