// Package handlers implements the business logic behind the CLI commands.
//
// Collaborators are created through package-level factory variables so tests
// can replace the AWS platform, the config loader and the output streams.
package handlers
