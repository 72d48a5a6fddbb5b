// Package cli is responsible for the command-line surface of poolprop: the
// cobra command tree, its flags, and the mapping of failures to exit codes.
package cli
