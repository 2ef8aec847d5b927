/*
Package observability provides tools for monitoring the statewrap generator.

The generator core never logs. Instead it reports through domain.LifecycleHooks,
and this package turns those events into Prometheus metrics (Metrics.Hooks) and
structured log records (LogHooks). Both can be combined with LifecycleHooks.Merge.
*/
package observability
