// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `LoadFrom` calls `validateStruct` immediately after it unmarshals and
// defaults the merged Koanf tree.  Any validation error aborts startup,
// ensuring the binary never runs with partial, malformed, or missing
// configuration.
//
// Rules in use: `required`, `required_without` (JWT secret may come from
// Vault), `hostname_port`, `url`, `oneof`, and `contains=#` for Vault
// references.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
