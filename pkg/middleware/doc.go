// Package middleware provides observability for the hotweb engine and dev server.
//
// This package includes:
//   - Prometheus collectors for renders, redraws, patches, file changes and
//     connected reload clients
//   - An HTTP middleware that counts and times requests per route
//   - OpenTelemetry span helpers for mount, redraw and render
//
// # Prometheus Metrics
//
// Metrics are registered on a caller-supplied registry so tests and embedded
// servers never collide on the global default:
//
//	reg := prometheus.NewRegistry()
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	engine := mount.NewEngine(mount.WithMetrics(m))
//
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// A nil *Metrics is valid and records nothing.
//
// # OpenTelemetry
//
// The tracer resolves against the global tracer provider unless one is given:
//
//	tracer := middleware.NewTracer(middleware.WithTracerName("hotweb"))
//	ctx, span := tracer.Start(ctx, "hotweb.redraw", attribute.String("hotweb.container", "app"))
//	defer tracer.End(span, err)
package middleware
