// Package dyncache provides a generic in-memory cache which only holds onto values requested at least twice
// within its recent memory.
//
// Single-use values are never stored, so there is no need to pick a fixed capacity large enough to hold them.
// This suits workloads such as parsing large structures that frequently cross-reference a few shared chunks among
// many one-off items. The number of stored values depends on the data; only the length of the memory of recent
// requests is fixed.
package dyncache
