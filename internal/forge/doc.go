// Package forge talks to conda-forge metadata services: the path-to-artifacts
// lookup service, the import-to-package maps, and the PyPI-to-conda name
// mapping. Mapping files are fetched lazily and held in client-internal
// caches; ClearCaches exposes those to the maintenance registry the same way
// tool-level caches are.
package forge
