package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// MetricsAPI is the subset of the CloudWatch client used by the recorder
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsRecorder buffers metric datapoints and flushes them to CloudWatch
type MetricsRecorder struct {
	client    MetricsAPI
	logger    *zap.Logger
	namespace string

	mu     sync.Mutex
	buffer []types.MetricDatum

	flushInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once
}

// CloudWatch caps PutMetricData at 1000 datums per call; we flush well below that.
const maxBufferedDatums = 500

// NewMetricsRecorder creates a metrics recorder that flushes on an interval.
// Call Close to stop the flush loop and drain the buffer.
func NewMetricsRecorder(client MetricsAPI, namespace string, logger *zap.Logger) *MetricsRecorder {
	r := &MetricsRecorder{
		client:        client,
		logger:        logger,
		namespace:     namespace,
		flushInterval: 30 * time.Second,
		done:          make(chan struct{}),
	}
	go r.flushLoop()
	return r
}

// Count records a count metric with optional dimensions
func (r *MetricsRecorder) Count(name string, value float64, dims map[string]string) {
	r.record(types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: toDimensions(dims),
	})
}

// Duration records a latency metric in milliseconds
func (r *MetricsRecorder) Duration(name string, d time.Duration, dims map[string]string) {
	r.record(types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: toDimensions(dims),
	})
}

func (r *MetricsRecorder) record(datum types.MetricDatum) {
	r.mu.Lock()
	r.buffer = append(r.buffer, datum)
	full := len(r.buffer) >= maxBufferedDatums
	r.mu.Unlock()

	if full {
		go r.Flush(context.Background())
	}
}

// Flush publishes all buffered datapoints
func (r *MetricsRecorder) Flush(ctx context.Context) {
	r.mu.Lock()
	if len(r.buffer) == 0 {
		r.mu.Unlock()
		return
	}
	batch := r.buffer
	r.buffer = nil
	r.mu.Unlock()

	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(r.namespace),
		MetricData: batch,
	})
	if err != nil {
		r.logger.Warn("Failed to publish metrics",
			zap.Error(err),
			zap.Int("datums", len(batch)),
		)
	}
}

// Close stops the flush loop and drains remaining datapoints
func (r *MetricsRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.Flush(ctx)
	})
}

func (r *MetricsRecorder) flushLoop() {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Flush(context.Background())
		case <-r.done:
			return
		}
	}
}

func toDimensions(dims map[string]string) []types.Dimension {
	if len(dims) == 0 {
		return nil
	}
	out := make([]types.Dimension, 0, len(dims))
	for k, v := range dims {
		out = append(out, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}
	return out
}

// NoopMetrics returns a recorder that drops everything, for tests and local runs
func NoopMetrics() *MetricsRecorder {
	return &MetricsRecorder{
		client:        noopMetricsClient{},
		logger:        zap.NewNop(),
		namespace:     "noop",
		flushInterval: time.Hour,
		done:          make(chan struct{}),
	}
}

type noopMetricsClient struct{}

func (noopMetricsClient) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	return &cloudwatch.PutMetricDataOutput{}, nil
}
