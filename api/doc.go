// Package api exposes the card and customer services over HTTP with echo,
// wrapping results as {"data": ...} and failures as {"error": {...}}.
package api
