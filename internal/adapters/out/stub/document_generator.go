// Package stub holds local stand-ins for the external collaborators: the
// document service, the notification service, ERP invoice staging, and
// reference data. They log what they were asked to do and answer optimistic
// defaults, which is enough for development and for every environment where
// the real integrations are not reachable.
package stub

import (
	"context"
	"log/slog"

	"cylindertrack/internal/core/ports"
)

// DocumentGenerator logs packing slip and BOL requests instead of rendering
// them.
type DocumentGenerator struct {
	logger *slog.Logger
}

// NewDocumentGenerator creates a logging document generator stub.
func NewDocumentGenerator(logger *slog.Logger) *DocumentGenerator {
	return &DocumentGenerator{logger: logger.With("component", "document_generator_stub")}
}

// Generate records the request and reports success.
func (g *DocumentGenerator) Generate(ctx context.Context, request ports.DocumentRequest) error {
	g.logger.InfoContext(ctx, "document generation requested",
		"kind", string(request.Kind),
		"orderId", request.OrderID.String(),
		"lineId", request.LineID.String(),
	)
	return nil
}
