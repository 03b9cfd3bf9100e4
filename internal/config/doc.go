// Package config loads and validates service configuration from defaults,
// an optional config.yaml, an optional .env file and LEXICON_ environment
// variables, in increasing order of precedence.
package config
