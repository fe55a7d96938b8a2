// Package tasks implements long-running catalogue operations.
//
// The core abstraction is [CatalogueEngine], which orchestrates catalogue
// syncs into the local cache, file exports, and bulk poster downloads.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
