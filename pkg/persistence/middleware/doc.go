/*
Package middleware wraps a ports.DialogStore with cross-cutting persistence behavior.

# Key Components

  - NewEncryptionMiddleware: seals each session with AES-256-GCM, rotating keys through FallbackKeys.
  - NewPIIMiddleware: masks pattern matches in stored free-text answers and replies.
  - Chain: composes middlewares around a store.
*/
package middleware
