// Package repository declares the per-resource repository contracts that
// business logic depends on. Implementations live in the persistent and
// memory subpackages.
package repository
