package domain

import "errors"

// ErrNoController is reported when a component has no descriptor and no default controller is registered.
var ErrNoController = errors.New("no controller to connect to")

// ErrModuleNotFound is returned by a ModuleLoader when a locator cannot be resolved.
var ErrModuleNotFound = errors.New("module not found")

// ErrExportNotFound is returned when a module lacks the requested named export.
var ErrExportNotFound = errors.New("export not found")

// ErrNoDefaultExport is returned when a module is connected without an export name and has no default.
var ErrNoDefaultExport = errors.New("module has no default export")

// ErrRegistryFrozen is returned when registering into a registry that has been frozen.
var ErrRegistryFrozen = errors.New("registry is frozen")

// ErrUnknownTarget is returned when an event or forward names a node that does not exist.
var ErrUnknownTarget = errors.New("unknown target")
