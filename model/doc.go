// Package model defines the persisted game resources, their create inputs,
// typed patches and list filters.
package model
