/*
Package observability provides tools for monitoring the algoviz engine.

It turns lifecycle hooks into Prometheus metrics and fans run events out to any
number of subscribers, which the HTTP adapter serves as a Server-Sent Events stream.
Both are plain domain.LifecycleHooks and can be combined with domain.MergeHooks.
*/
package observability
