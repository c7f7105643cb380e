// Package types defines the catalog entity types, collaborator interfaces,
// configuration, and standard error values for the GemShelf storage system.
package types
