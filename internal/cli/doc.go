// Package cli is responsible for parsing command-line arguments and
// validating user input. It translates flags and subcommands into a Command
// and overlays connection flags onto the loaded configuration.
package cli
