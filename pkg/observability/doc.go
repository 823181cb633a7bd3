/*
Package observability provides lifecycle hooks for monitoring the bitty engine.

It includes Prometheus metrics for mounts, rebuilds, and dispatches, a trace
recorder that persists dispatch records into a ports.TraceStore, and structured
logging hooks. Hook sets are combined with domain.CombineHooks.
*/
package observability
