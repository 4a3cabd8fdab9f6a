// Package main provides the entry point for the phishcheck CLI.
//
// phishcheck scores URLs for phishing risk with a logistic model over
// lexical URL features. It serves a web form and a JSON API, checks URLs
// from the command line, and evaluates the model on synthetic data.
//
// Usage:
//
//	phishcheck serve
//	phishcheck predict <url>...
//	phishcheck evaluate
//
// See --help for all available options.
package main

func main() {
	Execute()
}
