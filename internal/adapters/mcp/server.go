// Package mcpadapter exposes due-date lookup and single-document
// classification as MCP tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/accounting-doc-router/internal/core/classify"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
	"github.com/kirillkom/accounting-doc-router/internal/core/textnorm"
)

const (
	ToolComputeDueDates  = "compute_due_dates"
	ToolListCategories   = "list_categories"
	ToolClassifyDocument = "classify_document"
)

type Tools struct {
	dueDates ports.DueDateService
	roster   ports.CompanyRoster
	rules    domain.ClassificationRules
}

func NewTools(dueDates ports.DueDateService, roster ports.CompanyRoster, rules domain.ClassificationRules) *Tools {
	return &Tools{dueDates: dueDates, roster: roster, rules: rules}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(name, version string, tools *Tools) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(ToolComputeDueDates,
		mcp.WithDescription("Due date (YYYY-MM-DD) of every configured category for a competence month."),
		mcp.WithString("competence", mcp.Required(), mcp.Description("Competence month as MM/YYYY")),
	), tools.ComputeDueDates)

	s.AddTool(mcp.NewTool(ToolListCategories,
		mcp.WithDescription("Configured document categories in tie-break priority order."),
	), tools.ListCategories)

	s.AddTool(mcp.NewTool(ToolClassifyDocument,
		mcp.WithDescription("Identify the category and client company of a document from its text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Extracted document text")),
		mcp.WithString("file_name", mcp.Description("Original file name, appended to the text")),
		mcp.WithString("competence", mcp.Description("Competence month as MM/YYYY, to include the due date")),
	), tools.ClassifyDocument)

	return s
}

func (t *Tools) ComputeDueDates(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	competence, err := req.RequireString("competence")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := domain.ParseCompetence(competence); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"competence": competence,
		"due_dates":  t.dueDates.ComputeDueDates(competence),
	})
}

func (t *Tools) ListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"categories": t.rules.Categories(),
		"priority":   t.rules.Priority,
	})
}

type classification struct {
	Category    domain.Category `json:"category,omitempty"`
	CompanyID   string          `json:"company_id,omitempty"`
	CompanyName string          `json:"company_name,omitempty"`
	DueDate     string          `json:"due_date,omitempty"`
}

func (t *Tools) ClassifyDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if name := strings.TrimSpace(req.GetString("file_name", "")); name != "" {
		text = text + " " + name
	}

	companies, err := t.roster.ListCompanies(ctx)
	if err != nil {
		slog.Warn("mcp_roster_failed", "error", err)
		return nil, fmt.Errorf("list companies: %w", err)
	}

	var out classification
	if category, ok := classify.IdentifyCategory(textnorm.Normalize(text), t.rules.Keywords, t.rules.Priority); ok {
		out.Category = category
	}
	if company, ok := classify.IdentifyCompany(text, companies); ok {
		out.CompanyID = company.ID
		out.CompanyName = company.Name
	}
	if competence := req.GetString("competence", ""); competence != "" && out.Category != "" {
		out.DueDate = t.dueDates.ComputeDueDates(competence)[out.Category]
	}

	slog.Info("mcp_document_classified", "category", string(out.Category), "company_id", out.CompanyID)
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
