// Package service holds the card and customer rules that sit above the
// repositories: input validation, name uniqueness, reward card existence
// and the reference check that guards card deletion.
package service
