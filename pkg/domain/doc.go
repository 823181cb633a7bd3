/*
Package domain contains the core domain models of the bitty signal router.

It defines the vocabulary shared by the runtime, the host adapters, and controller
code: addressable Nodes, interaction Events, Controllers and their signal Handlers,
and the lifecycle hooks used for observability. The package is kept free of I/O
and of any particular host tree implementation.

# Key Entities

  - Node: an addressable element carrying data attributes (send, receive, forward, uuid).
  - Event: an interaction (or synthesized) event targeting a Node.
  - Controller: the delegate a component forwards signals to, looked up by signal name.
  - API: the back-reference a component hands to its controller (Forward, Match, UseTemplate).
  - LifecycleHooks: callbacks fired on mount, registry rebuild, and dispatch.
*/
package domain
