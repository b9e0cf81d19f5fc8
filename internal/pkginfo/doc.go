// Package pkginfo reads the info/ metadata members of conda package
// archives. Both archive generations are supported: the v2 .conda format
// (a zip wrapping a zstd-compressed tar of the info tree) and the legacy
// .tar.bz2 format. Only metadata is extracted; payload members are skipped.
package pkginfo
