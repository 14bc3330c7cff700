// Package source supplies size-class overrides and experiment switches to
// sizemap from outside the binary: environment variables and TOML or YAML
// files.
package source
