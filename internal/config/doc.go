// Package config loads, normalizes, and validates the TOML configuration.
//
// Defaults are complete: capgen runs with no config file present. Load
// resolves an explicit path or the default location, decodes over Default(),
// expands and absolutizes path fields, then validates every section with
// key-named error messages. CreateSample writes the embedded annotated
// sample for `capgen config init`.
package config
