// Package persistent implements the repository contracts on Bun. Every
// statement is described as a softdelete.Operation and run through the
// interceptor first, so deletes of soft-delete kinds become updates and
// reads only see live rows.
package persistent
