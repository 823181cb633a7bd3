/*
Package ports defines the driven ports (interfaces) of the bitty runtime.

These interfaces decouple the dispatch engine from the tree that hosts it, from
the way controller modules are located, and from where dispatch traces end up.

# Key Interfaces

  - Host: presents the node tree, structural change notifications, document-scoped listeners.
  - ModuleLoader: resolves a connection descriptor's module locator to a domain.Module.
  - TraceStore: persists dispatch records for inspection (memory or Redis).
*/
package ports
