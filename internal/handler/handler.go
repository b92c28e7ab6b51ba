package handler

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"sjsage522/priceworker/internal/scraper"
	"sjsage522/priceworker/logger"
	"sjsage522/priceworker/pkg/errors"
	"sjsage522/priceworker/services/notifier"
)

// Event is the invocation payload. The body is opaque: it is logged
// for traceability and not otherwise consumed.
type Event struct {
	Body string `json:"body,omitempty"`
}

// ResponseBody carries the human-readable outcome message
type ResponseBody struct {
	Message string `json:"message"`
}

// Response is the envelope returned to the invoker
type Response struct {
	StatusCode int          `json:"status_code"`
	Body       ResponseBody `json:"body"`
}

// Handler runs the ingestion pipeline for one invocation and turns its
// outcome into a response envelope plus a notification.
type Handler struct {
	pipeline *scraper.Pipeline
	notifier notifier.Notifier
	log      *logger.Logger
}

// New creates a new invocation handler
func New(pipeline *scraper.Pipeline, n notifier.Notifier) *Handler {
	return &Handler{
		pipeline: pipeline,
		notifier: n,
		log:      logger.ForHandler(),
	}
}

// Handle executes one pipeline run. It always produces a response
// envelope: load failures and upstream extraction failures are both
// downgraded to a 500 response instead of crashing the invocation.
func (h *Handler) Handle(ctx context.Context, event Event) (Response, error) {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		h.log.Info().
			Str("function", lambdacontext.FunctionName).
			Str("request_id", lc.AwsRequestID).
			Msg("Invocation started")
	}
	if event.Body != "" {
		h.log.Info().Str("body", event.Body).Msg("Received event body")
	}

	result, err := h.pipeline.Run(ctx)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeLoad) {
			return h.respond(ctx, 500, "Failed to upload the data to BigQuery.", err), nil
		}
		return h.respond(ctx, 500, "Failed to extract price data.", err), nil
	}

	h.log.Info().
		Int("records", result.Records).
		Msgf("Retrieved prices of %d products in %.2f seconds!", result.Records, result.Elapsed.Seconds())

	return h.respond(ctx, 200, "Data is being uploaded", nil), nil
}

// respond builds the response envelope and sends the matching
// notification. The notification is fire-and-forget.
func (h *Handler) respond(ctx context.Context, statusCode int, message string, cause error) Response {
	if cause != nil {
		message = fmt.Sprintf("%s\n%v", message, cause)
	}

	severity := notifier.SeverityForStatus(statusCode)
	if err := h.notifier.Notify(ctx, message, severity); err != nil {
		h.log.Error().Err(err).Msg("Failed to send notification")
	}

	return Response{
		StatusCode: statusCode,
		Body:       ResponseBody{Message: message},
	}
}
