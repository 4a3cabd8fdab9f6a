// Package config holds the runtime configuration of phishcheck.
//
// Values are layered in this order, later layers winning:
//
//  1. defaults from NewConfig
//  2. the YAML file found by FindConfigFile (.phishcheck)
//  3. environment variables, optionally read from a .env file
//  4. command-line flags, applied by cmd/phishcheck
//
// Validate is called once after all layers are applied.
package config
