// Package observability sets up OpenTelemetry tracing for the service: the
// OTLP/gRPC exporter behind the global tracer provider, the resource that
// identifies this instance, and span instrumentation of GORM queries.
package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-account-api/internal/config"
)

// DefaultServiceName is reported when OTEL_SERVICE_NAME is empty.
const DefaultServiceName = "account-api"

// ServiceInfo describes the running instance. It ends up on every span as
// resource attributes.
type ServiceInfo struct {
	Version     string // service.version
	Environment string // deployment.environment, e.g. the gin mode
	DBDriver    string // db.system of the primary database (sqlite|postgres)
}

// newExporter builds the span exporter; tests replace it to force failures.
var newExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
	return otlptrace.New(ctx, client)
}

// SetupOTel installs a batching tracer provider exporting to the OTLP/gRPC
// endpoint of cfg and W3C trace-context + baggage propagation. It returns the
// provider's shutdown function, which flushes pending spans.
//
// With tracing disabled it installs nothing and returns a no-op shutdown.
// On error the global provider and propagator are left untouched.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, info ServiceInfo) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := newExporter(ctx, otlptracegrpc.NewClient(clientOptions(cfg)...))
	if err != nil {
		return nil, err
	}

	res, err := serviceResource(ctx, cfg.ServiceName, info)
	if err != nil {
		_ = exp.Shutdown(ctx)
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// clientOptions targets cfg.Endpoint over plaintext or system-root TLS.
func clientOptions(cfg config.OTELConfig) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		return append(opts, otlptracegrpc.WithInsecure())
	}
	return append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
}

// serviceResource identifies this instance. Empty fields of info are left
// out, except the version, which defaults to "dev".
func serviceResource(ctx context.Context, name string, info ServiceInfo) (*resource.Resource, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultServiceName
	}
	version := info.Version
	if version == "" {
		version = "dev"
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceName(name),
		semconv.ServiceVersion(version),
	}
	if info.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentKey.String(info.Environment))
	}
	if sys := dbSystem(info.DBDriver); sys != "" {
		attrs = append(attrs, semconv.DBSystemKey.String(sys))
	}
	return resource.New(ctx, resource.WithAttributes(attrs...))
}

// dbSystem maps a DB_DRIVER value to its db.system name.
func dbSystem(driver string) string {
	switch strings.ToLower(driver) {
	case "postgres":
		return "postgresql"
	case "sqlite":
		return "sqlite"
	default:
		return ""
	}
}

// InstrumentDB registers the GORM tracing plugin so every query becomes a
// child span of the request that issued it. Bound query variables are left
// out of span attributes; they may carry credentials.
func InstrumentDB(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(
		tracing.WithoutMetrics(),
		tracing.WithoutQueryVariables(),
	))
}
