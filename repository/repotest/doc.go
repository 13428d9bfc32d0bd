// Package repotest holds the behaviour every CardRepository and
// CustomerRepository implementation must share. Implementations call Run
// from their own tests with a factory producing empty stores.
package repotest
