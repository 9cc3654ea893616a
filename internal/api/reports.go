package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/udx-labs/userdesk/internal/backup"
	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/users"
)

type ReportFilters struct {
	Query  string        `json:"query"`
	Role   models.Role   `json:"role"`
	Status models.Status `json:"status"`
}

type GenerateReportRequest struct {
	Type    string        `json:"type"`
	Filters ReportFilters `json:"filters"`
	Format  string        `json:"format"`
}

type ExportReportRequest struct {
	Format  string        `json:"format"`
	Filters ReportFilters `json:"filters"`
}

// ReportDescriptor is the synthetic artifact a generate call produces;
// nothing is rendered, only described.
type ReportDescriptor struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Format      string    `json:"format"`
	GeneratedAt time.Time `json:"generatedAt"`
	RowCount    int       `json:"rowCount"`
	Status      string    `json:"status"`
}

type ExportData struct {
	Format  string `json:"format"`
	Count   int    `json:"count"`
	Content string `json:"content"`
}

func (c *Client) handleReports(ctx context.Context, method, endpoint string, payload any) (*Response, error) {
	if err := c.requireAuth(ctx); err != nil {
		return nil, err
	}

	switch {
	case method == "GET" && endpoint == "/reports":
		return c.listReports(ctx)
	case method == "POST" && strings.HasSuffix(endpoint, "/reports/generate"):
		return c.generateReport(ctx, payload)
	case method == "POST" && strings.HasSuffix(endpoint, "/reports/export"):
		return c.exportReport(ctx, payload)
	}

	return nil, notFound("endpoint not found: " + endpoint)
}

// listReports returns a simulated list of previously generated reports.
func (c *Client) listReports(ctx context.Context) (*Response, error) {
	now := time.Now()
	reports := []ReportDescriptor{
		{ID: uuid.NewString(), Type: "user-activity", Format: "pdf", GeneratedAt: now.Add(-48 * time.Hour), RowCount: 120, Status: "completed"},
		{ID: uuid.NewString(), Type: "registrations", Format: "csv", GeneratedAt: now.Add(-24 * time.Hour), RowCount: 42, Status: "completed"},
		{ID: uuid.NewString(), Type: "audit-summary", Format: "json", GeneratedAt: now.Add(-2 * time.Hour), RowCount: 7, Status: "completed"},
	}
	return &Response{Success: true, Data: reports}, nil
}

func (c *Client) generateReport(ctx context.Context, payload any) (*Response, error) {
	req, apiErr := decodePayload[GenerateReportRequest](payload)
	if apiErr != nil {
		return nil, apiErr
	}

	matched := c.users.Search(ctx, req.Filters.Query, users.Filters{
		Role:   req.Filters.Role,
		Status: req.Filters.Status,
	})

	format := req.Format
	if format == "" {
		format = backup.FormatJSON
	}

	desc := ReportDescriptor{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Format:      format,
		GeneratedAt: time.Now(),
		RowCount:    len(matched),
		Status:      "completed",
	}
	return &Response{Success: true, Message: "Report generated", Data: desc}, nil
}

// exportReport renders the filtered user collection in the requested
// format. The full-collection CSV path reuses the backup exporter;
// filtered sets are rendered from the matches.
func (c *Client) exportReport(ctx context.Context, payload any) (*Response, error) {
	req, apiErr := decodePayload[ExportReportRequest](payload)
	if apiErr != nil {
		return nil, apiErr
	}

	matched := c.users.Search(ctx, req.Filters.Query, users.Filters{
		Role:   req.Filters.Role,
		Status: req.Filters.Status,
	})
	for i := range matched {
		matched[i] = sanitize(matched[i])
	}

	var content string
	switch strings.ToLower(req.Format) {
	case backup.FormatCSV:
		content = backup.UsersToCSV(matched)
	case backup.FormatJSON, "":
		b, err := json.MarshalIndent(matched, "", "  ")
		if err != nil {
			c.log.Error(ctx, "export serialization failed", "error", err)
			return nil, internal("export failed")
		}
		content = string(b)
	default:
		return nil, badRequest("unsupported export format: " + req.Format)
	}

	data := ExportData{Format: req.Format, Count: len(matched), Content: content}
	msg := fmt.Sprintf("Exported %d users", len(matched))
	return &Response{Success: true, Message: msg, Data: data}, nil
}
