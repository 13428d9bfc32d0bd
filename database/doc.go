// Package database opens and owns the Bun connection for the configured
// driver, installs query logging hooks, classifies driver errors and runs
// schema migrations for the registered models.
package database
