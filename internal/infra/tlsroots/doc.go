// Package tlsroots builds client TLS configuration for kvwire-cli.
//
//   - Pool: system roots plus custom CA certificates from PEM files
//   - Config: the tls section of the CLI configuration, turned into a
//     *tls.Config for client.WithTLS
package tlsroots
