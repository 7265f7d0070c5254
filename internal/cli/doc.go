// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It merges
// built-in defaults, the optional HCL profile and explicit flags, in that
// order, into the application's configuration.
package cli
