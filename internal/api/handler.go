package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/insightdelivered/statement-ledger/internal/category"
	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/statement"
	"github.com/insightdelivered/statement-ledger/internal/store"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

// Version is reported by /api/health.
const Version = "2.0.0"

// topN is how many transactions the analysis response highlights.
const topN = 5

// AnalyzeResponse is the JSON response from the analyze endpoints.
type AnalyzeResponse struct {
	Success      bool                    `json:"success"`
	Error        string                  `json:"error,omitempty"`
	Transactions []models.Transaction    `json:"transactions"`
	Totals       *ledger.Totals          `json:"totals,omitempty"`
	Display      *ledger.Display         `json:"display,omitempty"`
	Documents    []ledger.DocumentStatus `json:"documents,omitempty"`
	Files        []ledger.FileSummary    `json:"files,omitempty"`
	Months       []ledger.MonthlyTrend   `json:"months,omitempty"`
	Top          []models.Transaction    `json:"top,omitempty"`
	Categories   []ledger.CategoryTotal  `json:"categories,omitempty"`
	CSV          string                  `json:"csv,omitempty"`
	Count        int                     `json:"count"`
	Version      string                  `json:"version,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	analyzer *statement.Analyzer
	store    *store.Store
	tokens   *Tokens
	logger   *zap.Logger

	// mu guards the analyzer's category index: classification reads it,
	// POST /api/categories writes it.
	mu sync.RWMutex
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithTokens sets the access token service. Without it the handler signs
// tokens with a random per-process secret and a one hour lifetime.
func WithTokens(t *Tokens) HandlerOption {
	return func(h *Handler) { h.tokens = t }
}

// NewHandler wires the handlers. st may be nil, in which case the account
// and document routes are not registered.
func NewHandler(a *statement.Analyzer, st *store.Store, logger *zap.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{analyzer: a, store: st, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	if h.tokens == nil {
		h.tokens = NewTokens(nil, time.Hour)
	}
	return h
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  Version,
		"engine":   "fiber",
		"dialects": h.analyzer.Dialects(),
	})
}

// HandleAnalyze analyzes uploaded files (form field "file", repeatable).
// The optional "password" field unlocks protected PDFs; "header=false"
// drops the CSV metadata rows.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	}
	files := form.File["file"]
	if len(files) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	credential := c.FormValue("password")
	inputs := make([]statement.Input, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read %s: %v", fh.Filename, err))
		}
		inputs = append(inputs, statement.Input{Name: fh.Filename, Data: data, Credential: credential})
	}
	return h.respond(c, inputs, c.FormValue("header") != "false")
}

// analyzeStoredRequest selects stored documents by id; empty means all.
type analyzeStoredRequest struct {
	IDs    []uint `json:"ids"`
	Header *bool  `json:"header"`
}

// HandleAnalyzeStored analyzes an account's stored documents. The account
// number is the credential for protected statements.
func (h *Handler) HandleAnalyzeStored(c *fiber.Ctx) error {
	account := authenticatedAccount(c)
	var req analyzeStoredRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid JSON body.")
		}
	}

	docs, err := h.store.ListDocuments(account)
	if err != nil {
		return h.storeError(c, err)
	}
	wanted := make(map[uint]bool, len(req.IDs))
	for _, id := range req.IDs {
		wanted[id] = true
	}

	var inputs []statement.Input
	for i := range docs {
		if len(wanted) > 0 && !wanted[docs[i].ID] {
			continue
		}
		data, err := h.store.ReadDocument(&docs[i])
		if err != nil {
			inputs = append(inputs, statement.Input{Name: docs[i].Filename, Credential: account})
			h.logger.Warn("stored document missing", zap.Uint("id", docs[i].ID), zap.Error(err))
			continue
		}
		inputs = append(inputs, statement.Input{Name: docs[i].Filename, Data: data, Credential: account})
	}
	if len(inputs) == 0 {
		return writeError(c, fiber.StatusNotFound, "No stored documents to analyze.")
	}
	return h.respond(c, inputs, req.Header == nil || *req.Header)
}

func (h *Handler) respond(c *fiber.Ctx, inputs []statement.Input, includeHeader bool) error {
	h.mu.RLock()
	active := h.analyzer.Classifier().Index().Categories()
	l := h.analyzer.Run(c.UserContext(), inputs, active)
	h.mu.RUnlock()

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := csvWriter.Write(&csvBuf, l); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	display := l.DisplayTotals()
	resp := AnalyzeResponse{
		Success:      len(l.Failed()) < len(l.Documents),
		Transactions: l.Transactions,
		Totals:       &l.Totals,
		Display:      &display,
		Documents:    l.Documents,
		Files:        l.FileSummaries(),
		Months:       l.MonthlyTrends(),
		Top:          l.Top(topN),
		Categories:   l.CategoryBreakdown(active),
		CSV:          csvBuf.String(),
		Count:        len(l.Transactions),
		Version:      Version,
	}
	if !resp.Success {
		resp.Error = "No document could be read."
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}
	return c.JSON(resp)
}

// HandleListCategories returns the category index in priority order.
func (h *Handler) HandleListCategories(c *fiber.Ctx) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.JSON(h.analyzer.Classifier().Index().Export())
}

type addCategoryRequest struct {
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
}

// HandleAddCategory adds a category, and optionally a keyword to it.
func (h *Handler) HandleAddCategory(c *fiber.Ctx) error {
	var req addCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return writeError(c, fiber.StatusBadRequest, "Category name is required.")
	}

	h.mu.Lock()
	idx := h.analyzer.Classifier().Index()
	idx.AddCategory(name)
	idx.AddKeyword(name, req.Keyword)
	seed := category.Seed{Name: name, Keywords: idx.Keywords(name)}
	h.mu.Unlock()

	h.logger.Info("category updated", zap.String("category", seed.Name), zap.String("keyword", req.Keyword))
	return c.Status(fiber.StatusCreated).JSON(seed)
}

type credentialsRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// HandleRegister creates an account.
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	u, err := h.store.Register(req.Account, req.Password)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

// LoginResponse carries the access token for the document library routes.
type LoginResponse struct {
	Account   string    `json:"account"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleLogin checks an account's password and issues an access token.
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	u, err := h.store.Login(req.Account, req.Password)
	if err != nil {
		return h.storeError(c, err)
	}
	token, expires, err := h.tokens.Issue(u.AccountNumber)
	if err != nil {
		h.logger.Error("issuing token", zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "Could not issue token.")
	}
	return c.JSON(LoginResponse{
		Account:   u.AccountNumber,
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expires,
	})
}

// HandleListDocuments lists an account's stored documents, newest first.
func (h *Handler) HandleListDocuments(c *fiber.Ctx) error {
	docs, err := h.store.ListDocuments(authenticatedAccount(c))
	if err != nil {
		return h.storeError(c, err)
	}
	if docs == nil {
		docs = []store.StoredDocument{}
	}
	return c.JSON(docs)
}

// HandleUploadDocuments stores uploaded files (form field "file") for an
// account.
func (h *Handler) HandleUploadDocuments(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	}
	files := form.File["file"]
	if len(files) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	account := authenticatedAccount(c)
	saved := make([]*store.StoredDocument, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read %s: %v", fh.Filename, err))
		}
		doc, err := h.store.SaveDocument(account, fh.Filename, data)
		if err != nil {
			return h.storeError(c, err)
		}
		saved = append(saved, doc)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// HandleDeleteDocument removes one of the caller's stored documents.
func (h *Handler) HandleDeleteDocument(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return writeError(c, fiber.StatusBadRequest, "Invalid document id.")
	}
	if err := h.store.DeleteDocument(authenticatedAccount(c), uint(id)); err != nil {
		return h.storeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) storeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		return writeError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error("store failure", zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "Internal storage error.")
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: msg})
}
