package ports

import (
	"context"

	"github.com/aretw0/bitty/pkg/domain"
)

// ModuleLoader resolves a module locator (the first token of a connection
// descriptor) into a controller module.
// This is the asynchronous boundary of the connection resolver.
type ModuleLoader interface {
	// Load returns the module for locator, or an error wrapping domain.ErrModuleNotFound.
	Load(ctx context.Context, locator string) (*domain.Module, error)
}
