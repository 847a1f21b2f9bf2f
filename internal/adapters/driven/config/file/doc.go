// Package file provides the TOML configuration store kept in ~/.outline.
package file
