package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
)

// maxResponseExcerpt bounds how much of a failed webhook response is logged.
const maxResponseExcerpt = 512

type pipeline struct {
	docs   Documents
	signer Signer
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

// New creates the pipeline boundary. A nil client uses one bound to cfg.Timeout.
func New(docs Documents, signer Signer, client *http.Client, cfg Config, logger *slog.Logger) System {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &pipeline{
		docs:   docs,
		signer: signer,
		client: client,
		cfg:    cfg,
		logger: logger.With("system", "analysis"),
	}
}

func (p *pipeline) Handler() *Handler {
	return NewHandler(p, p.cfg.Secret, p.logger)
}

func (p *pipeline) Submit(ctx context.Context, id uuid.UUID) (*Submission, error) {
	if p.cfg.WebhookURL == "" {
		return nil, ErrDisabled
	}

	doc, err := p.docs.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	signed, err := p.signer.SignedURL(ctx, doc.StorageKey, p.cfg.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("sign document url: %w", err)
	}

	// Marked before dispatch so a fast callback is not overwritten.
	if err := p.docs.SetStatus(ctx, id, documents.StatusAnalyzing); err != nil {
		return nil, err
	}

	req := Request{
		DocumentID:  doc.ID,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		URL:         signed,
		CallbackURL: p.cfg.CallbackURL,
	}

	if err := p.dispatch(ctx, req); err != nil {
		if statusErr := p.docs.SetStatus(context.WithoutCancel(ctx), id, documents.StatusFailed); statusErr != nil {
			p.logger.Warn("failed to mark document failed after dispatch error", "id", id, "error", statusErr)
		}
		p.logger.Error("analysis dispatch failed", "id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	p.logger.Info("document submitted for analysis", "id", id, "filename", doc.Filename)

	return &Submission{
		DocumentID:  id,
		Status:      documents.StatusAnalyzing,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

func (p *pipeline) dispatch(ctx context.Context, req Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.cfg.Secret != "" {
		httpReq.Header.Set(HeaderSecret, p.cfg.Secret)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseExcerpt))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(excerpt))
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

func (p *pipeline) Receive(ctx context.Context, payload []byte) (*documents.Document, error) {
	cb, err := ParseCallback(payload)
	if err != nil {
		return nil, err
	}

	switch cb.Status {
	case CallbackFailed:
		if err := p.docs.SetStatus(ctx, cb.DocumentID, documents.StatusFailed); err != nil {
			return nil, err
		}
		p.logger.Warn("analysis reported failure", "id", cb.DocumentID, "error", cb.Error)
		return p.docs.Find(ctx, cb.DocumentID)

	default:
		fields, err := DecodeFields(cb.Fields)
		if err != nil {
			return nil, err
		}
		return p.docs.Ingest(ctx, cb.DocumentID, documents.IngestCommand{Fields: fields})
	}
}
