// Package atelier wires the card and customer repositories for the
// configured backend. Sub-packages hold the soft-delete interceptor, the
// models, both repository implementations and the HTTP surface.
package atelier
