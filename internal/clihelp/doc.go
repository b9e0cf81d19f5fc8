// Package clihelp collects the complete help text of a supported command
// line tool by locating its binary and walking its subcommands. The result
// is the concatenation of the root help and every subcommand's help, so it
// can be grepped and paginated as one document.
package clihelp
