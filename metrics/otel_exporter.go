package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

/* OTelExporter publishes connector metrics through OpenTelemetry
 * Gauges are observed from the Collector on scrape, counters are fed
 * by the trigger lifecycle through RecordOperation and RecordDelivery
 */
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	meter             metric.Meter
	inboxLengthGauge  metric.Int64ObservableGauge
	inboxPendingGauge metric.Int64ObservableGauge
	statusCountGauge  metric.Int64ObservableGauge
	throughputGauge   metric.Int64ObservableGauge
	staleGauge        metric.Int64ObservableGauge
	operations        metric.Int64Counter
	deliveries        metric.Int64Counter
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	oe, err := NewOTelExporterWithReader(collector, exporter)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(oe.meterProvider)
	return oe, nil
}

// NewOTelExporterWithReader builds the exporter on top of any metric reader
func NewOTelExporterWithReader(collector Collector, reader sdkmetric.Reader) (*OTelExporter, error) {
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)

	meter := meterProvider.Meter(
		"salessuite-connector",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.inboxLengthGauge, err = oe.meter.Int64ObservableGauge(
		"connector.inbox.length",
		metric.WithDescription("Number of events recorded per trigger node and mode"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeInboxLengths),
	)
	if err != nil {
		return fmt.Errorf("creating inbox length gauge: %w", err)
	}

	oe.inboxPendingGauge, err = oe.meter.Int64ObservableGauge(
		"connector.inbox.pending",
		metric.WithDescription("Number of consumed but unacknowledged events per trigger node and mode"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeInboxPending),
	)
	if err != nil {
		return fmt.Errorf("creating inbox pending gauge: %w", err)
	}

	oe.statusCountGauge, err = oe.meter.Int64ObservableGauge(
		"connector.event.status.count",
		metric.WithDescription("Number of events by status"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeStatusCounts),
	)
	if err != nil {
		return fmt.Errorf("creating status count gauge: %w", err)
	}

	oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
		"connector.event.throughput",
		metric.WithDescription("Number of events received over time window"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeThroughput),
	)
	if err != nil {
		return fmt.Errorf("creating throughput gauge: %w", err)
	}

	oe.staleGauge, err = oe.meter.Int64ObservableGauge(
		"connector.subscriptions.stale",
		metric.WithDescription("Production subscriptions whose delete is still pending per trigger node"),
		metric.WithUnit("{subscriptions}"),
		metric.WithInt64Callback(oe.observeStaleSubscriptions),
	)
	if err != nil {
		return fmt.Errorf("creating stale subscriptions gauge: %w", err)
	}

	oe.operations, err = oe.meter.Int64Counter(
		"connector.subscription.operations",
		metric.WithDescription("Subscription lifecycle operations by outcome"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return fmt.Errorf("creating operations counter: %w", err)
	}

	oe.deliveries, err = oe.meter.Int64Counter(
		"connector.webhook.deliveries",
		metric.WithDescription("Webhook deliveries received from SalesSuite"),
		metric.WithUnit("{deliveries}"),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observeInboxLengths(ctx context.Context, observer metric.Int64Observer) error {
	inboxes, err := oe.collector.GetInboxLengths(ctx)
	if err != nil {
		return err
	}

	for _, inbox := range inboxes {
		observer.Observe(inbox.Length, metric.WithAttributes(
			attribute.String("node.id", inbox.NodeID),
			attribute.String("trigger.mode", inbox.Mode),
		))
	}

	return nil
}

func (oe *OTelExporter) observeInboxPending(ctx context.Context, observer metric.Int64Observer) error {
	inboxes, err := oe.collector.GetInboxLengths(ctx)
	if err != nil {
		return err
	}

	for _, inbox := range inboxes {
		observer.Observe(inbox.Pending, metric.WithAttributes(
			attribute.String("node.id", inbox.NodeID),
			attribute.String("trigger.mode", inbox.Mode),
		))
	}

	return nil
}

// observeStatusCounts is a callback that reports event counts by status
func (oe *OTelExporter) observeStatusCounts(ctx context.Context, observer metric.Int64Observer) error {
	statusCounts, err := oe.collector.GetStatusCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range statusCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("event.status", status),
		))
	}

	return nil
}

// observeThroughput is a callback that reports throughput metrics
func (oe *OTelExporter) observeThroughput(ctx context.Context, observer metric.Int64Observer) error {
	throughput, err := oe.collector.GetThroughput(ctx)
	if err != nil {
		return err
	}

	observer.Observe(throughput.LastMinute, metric.WithAttributes(
		attribute.String("time.window", "1m"),
	))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(
		attribute.String("time.window", "5m"),
	))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(
		attribute.String("time.window", "15m"),
	))

	return nil
}

func (oe *OTelExporter) observeStaleSubscriptions(ctx context.Context, observer metric.Int64Observer) error {
	stale, err := oe.collector.GetStaleSubscriptions(ctx)
	if err != nil {
		return err
	}

	for nodeID, count := range stale {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("node.id", nodeID),
		))
	}

	return nil
}

// RecordOperation counts a subscription create or delete
func (oe *OTelExporter) RecordOperation(ctx context.Context, op, mode string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	oe.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("trigger.mode", mode),
		attribute.String("outcome", outcome),
	))
}

// RecordDelivery counts an inbound webhook
func (oe *OTelExporter) RecordDelivery(ctx context.Context, mode string) {
	oe.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("trigger.mode", mode),
	))
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
