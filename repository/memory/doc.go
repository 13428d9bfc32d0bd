// Package memory implements the repository contracts on process-local
// slices. It replicates the soft-delete visibility, ordering and pagination
// rules by hand and simulates the customer to card join table with a map of
// owner id to ordered card ids. It is meant for tests and is not safe for
// concurrent use.
package memory
