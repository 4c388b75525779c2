// Package queue runs resume analysis jobs delivered over RabbitMQ.
package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
	"github.com/0xcro3dile/careercraft/internal/domain/usecases"
)

// Defaults for queue topology.
const (
	DefaultQueue    = "analysis_requests"
	DefaultExchange = "analysis_results"
)

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job is an analysis request. The resume is either inline text or an object key
// resolved through the configured fetcher.
type Job struct {
	ID             uuid.UUID `json:"id"`
	ResumeName     string    `json:"resume_name"`
	Resume         string    `json:"resume,omitempty"`
	ResumeKey      string    `json:"resume_key,omitempty"`
	JobDescription string    `json:"job_description"`
	WithFeedback   bool      `json:"with_feedback"`
}

// Result is published for every job, including failed ones.
type Result struct {
	JobID      uuid.UUID `json:"job_id"`
	Status     string    `json:"status"`
	Score      float64   `json:"score"`
	Percentage int       `json:"percentage"`
	Matched    []string  `json:"matched,omitempty"`
	Missing    []string  `json:"missing,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Analyzer scores a resume against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, req usecases.AnalyzeRequest) (*usecases.Analysis, error)
}

// Publisher is the subset of *amqp.Channel used to emit results.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Config controls the consumer topology.
type Config struct {
	URL      string
	Queue    string
	Exchange string
	Workers  int
}

// Consumer turns queued jobs into published results.
type Consumer struct {
	cfg      Config
	analyzer Analyzer
	fetcher  ports.ObjectFetcher
	parser   ports.DocumentParser
}

// NewConsumer creates a consumer. fetcher and parser may be nil when jobs carry inline text.
func NewConsumer(cfg Config, analyzer Analyzer, fetcher ports.ObjectFetcher, parser ports.DocumentParser) *Consumer {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Consumer{cfg: cfg, analyzer: analyzer, fetcher: fetcher, parser: parser}
}

// RoutingKey is the results routing key for a job.
func RoutingKey(id uuid.UUID) string {
	return fmt.Sprintf("analysis.%s", id)
}

// Process decodes a job body and runs it. It never fails: errors become a failed Result.
func (c *Consumer) Process(ctx context.Context, body []byte) Result {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return failed(job.ID, fmt.Errorf("decoding job: %w", err))
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	resume, err := c.resumeText(ctx, job)
	if err != nil {
		return failed(job.ID, err)
	}

	name := job.ResumeName
	if name == "" {
		name = "resume"
	}
	doc := entities.NewDocument(name, resume)

	analysis, err := c.analyzer.Analyze(ctx, usecases.AnalyzeRequest{
		Resume:         doc,
		JobDescription: job.JobDescription,
		WithFeedback:   job.WithFeedback,
	})
	if err != nil {
		return failed(job.ID, err)
	}

	return Result{
		JobID:      job.ID,
		Status:     StatusCompleted,
		Score:      analysis.Match.Score,
		Percentage: analysis.Match.Percentage(),
		Matched:    analysis.Match.Matched,
		Missing:    analysis.Match.Missing,
		Feedback:   analysis.Feedback,
		Timestamp:  time.Now().UTC(),
	}
}

func (c *Consumer) resumeText(ctx context.Context, job Job) (string, error) {
	if strings.TrimSpace(job.Resume) != "" || job.ResumeKey == "" {
		return job.Resume, nil
	}
	if c.fetcher == nil || c.parser == nil {
		return "", fmt.Errorf("job references %s but no object storage is configured", job.ResumeKey)
	}

	data, err := retry(3, func() ([]byte, error) {
		body, err := c.fetcher.Fetch(ctx, job.ResumeKey)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, body); err != nil {
			return nil, fmt.Errorf("failed to read object body: %w", err)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return "", fmt.Errorf("file download error: %w", err)
	}

	text, err := c.parser.Parse(ctx, data, job.ResumeKey)
	if err != nil {
		return "", fmt.Errorf("text extraction error: %w", err)
	}
	return text, nil
}

func failed(id uuid.UUID, err error) Result {
	return Result{JobID: id, Status: StatusFailed, Error: err.Error(), Timestamp: time.Now().UTC()}
}

// Publish sends a result to the results exchange.
func (c *Consumer) Publish(pub Publisher, res Result) error {
	body, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return pub.Publish(c.cfg.Exchange, RoutingKey(res.JobID), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   res.Timestamp,
		Body:        body,
	})
}

// Handle processes one delivery and publishes its result.
func (c *Consumer) Handle(ctx context.Context, pub Publisher, body []byte) error {
	res := c.Process(ctx, body)
	if res.Status == StatusFailed {
		log.Printf("[WARN] Analysis job %s failed: %s", res.JobID, res.Error)
	} else {
		log.Printf("[INFO] Analysis job %s completed: %d%%", res.JobID, res.Percentage)
	}
	if err := c.Publish(pub, res); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	return nil
}

// Run connects to the broker and consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.Qos(c.cfg.Workers, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}
	log.Printf("[INFO] Consuming %s with %d workers", c.cfg.Queue, c.cfg.Workers)

	// Publishing on a shared channel is not concurrency-safe.
	var pubMu sync.Mutex
	pub := publisherFunc(func(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
		pubMu.Lock()
		defer pubMu.Unlock()
		return ch.Publish(exchange, key, mandatory, immediate, msg)
	})

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for msg := range msgs {
				if err := c.Handle(ctx, pub, msg.Body); err != nil {
					log.Printf("[ERROR] Worker %d: %v", id+1, err)
					msg.Nack(false, true)
					continue
				}
				msg.Ack(false)
			}
		}(i)
	}

	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	select {
	case <-ctx.Done():
		ch.Close()
		<-workersDone
		return ctx.Err()
	case <-workersDone:
		return fmt.Errorf("delivery channel closed by broker")
	}
}

type publisherFunc func(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error

func (f publisherFunc) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return f(exchange, key, mandatory, immediate, msg)
}

// retry retries fn up to attempts times with linear backoff.
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		time.Sleep(time.Duration(100*(i+1)) * time.Millisecond)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
