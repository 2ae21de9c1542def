package middleware

import "github.com/aretw0/crossroads/pkg/ports"

// Middleware allows wrapping a DialogStore to add behavior.
type Middleware func(ports.DialogStore) ports.DialogStore

// Chain applies middlewares so the first one sees calls first.
func Chain(store ports.DialogStore, mws ...Middleware) ports.DialogStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
