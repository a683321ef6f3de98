package storage

import "context"

// Storage defines the root interface for the entire data layer.
// Components should depend on the more granular interfaces instead of this one.
type Storage interface {
	ApiStore
	GatewayStore
	ConnectionStore
}

// Migrator is implemented by backends that own their schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}
