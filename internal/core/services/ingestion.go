package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionCoordinator = (*IngestionService)(nil)

// RAG pipeline ingestion paths.
const (
	pathIngest = "/rag-pipeline/ingest"
	pathUpload = "/rag-pipeline/upload"
)

// keyFileTypes overrides the supported extension list.
const keyFileTypes = "ingest.file_types"

type ingestRequest struct {
	Document   string `json:"document"`
	ChunkSize  string `json:"chunkSize"`
	Collection string `json:"collection"`
	FileType   string `json:"fileType"`
}

type ingestResponse struct {
	Collection     string        `json:"collection"`
	TotalDocuments flexInt       `json:"totalDocuments"`
	Error          remoteMessage `json:"error"`
}

// IngestionService submits document batches one file at a time.
type IngestionService struct {
	transport driven.Transport
	config    driven.ConfigStore
	history   driven.IngestionHistory
	validate  *validator.Validate
	now       func() time.Time
}

// NewIngestionService creates a new ingestion service.
// The config store and history are optional (can be nil).
func NewIngestionService(
	transport driven.Transport,
	config driven.ConfigStore,
	history driven.IngestionHistory,
) *IngestionService {
	return &IngestionService{
		transport: transport,
		config:    config,
		history:   history,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

// SupportedFileTypes returns the accepted extensions.
func (s *IngestionService) SupportedFileTypes() []string {
	if s.config != nil {
		var types []string
		for _, t := range s.config.GetStringSlice(keyFileTypes) {
			t = domain.FileType("." + strings.TrimPrefix(strings.TrimSpace(t), "."))
			if t != "" && !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
		if len(types) > 0 {
			return types
		}
	}
	return slices.Clone(domain.DefaultSupportedFileTypes)
}

// Ingest validates the batch and submits each supported file in order.
func (s *IngestionService) Ingest(
	ctx context.Context, req domain.IngestionRequest, progress driving.ProgressFunc,
) ([]domain.IngestionOutcome, error) {
	req.Collection = strings.TrimSpace(req.Collection)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	batch := domain.IngestionBatch{
		ID:         uuid.NewString(),
		Collection: req.Collection,
		ChunkSize:  req.ChunkSize,
		StartedAt:  s.now(),
	}

	logger.Section("Ingestion")
	logger.Info("Batch %s: %d files into %q (chunk size %d)", batch.ID, len(req.Files), req.Collection, req.ChunkSize)

	supported := s.SupportedFileTypes()
	outcomes := make([]domain.IngestionOutcome, 0, len(req.Files))
	for _, file := range req.Files {
		outcome := s.ingestFile(ctx, req, file, supported)
		outcomes = append(outcomes, outcome)
		if progress != nil {
			progress(outcome)
		}
	}

	batch.CompletedAt = s.now()
	batch.Outcomes = outcomes
	s.record(ctx, batch)

	succeeded, failed, skipped := domain.CountOutcomes(outcomes)
	logger.Info("Batch %s done: %d succeeded, %d failed, %d skipped", batch.ID, succeeded, failed, skipped)
	return outcomes, nil
}

func (s *IngestionService) ingestFile(
	ctx context.Context, req domain.IngestionRequest, file domain.IngestionFile, supported []string,
) domain.IngestionOutcome {
	fileType := domain.FileType(file.Name)
	outcome := domain.IngestionOutcome{
		FileName:   file.Name,
		Collection: req.Collection,
		FileType:   fileType,
	}

	if file.Err != nil {
		logger.Warn("Cannot read %s: %v", file.Name, file.Err)
		outcome.Status = domain.OutcomeFailed
		outcome.Error = file.Err.Error()
		return outcome
	}

	if !slices.Contains(supported, fileType) {
		logger.Warn("Skipping %s: %v %q", file.Name, domain.ErrUnsupportedType, fileType)
		outcome.Status = domain.OutcomeSkipped
		outcome.Error = fmt.Sprintf("%v %q (supported: %s)", domain.ErrUnsupportedType, fileType, strings.Join(supported, ", "))
		return outcome
	}

	if err := ctx.Err(); err != nil {
		outcome.Status = domain.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	body := ingestRequest{
		Document:   file.Base64Data,
		ChunkSize:  strconv.Itoa(req.ChunkSize),
		Collection: req.Collection,
		FileType:   fileType,
	}
	var resp ingestResponse
	if err := s.transport.Do(ctx, http.MethodPost, pathIngest, body, &resp); err != nil {
		logger.Warn("Ingesting %s failed: %v", file.Name, err)
		outcome.Status = domain.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	if resp.Error != "" {
		logger.Warn("Ingesting %s rejected: %s", file.Name, resp.Error)
		outcome.Status = domain.OutcomeFailed
		outcome.Error = string(resp.Error)
		return outcome
	}

	if resp.Collection != "" {
		outcome.Collection = resp.Collection
	}
	outcome.Status = domain.OutcomeSucceeded
	outcome.TotalDocuments = int(resp.TotalDocuments)
	logger.Debug("Ingested %s, collection %q now holds %d documents", file.Name, outcome.Collection, outcome.TotalDocuments)
	return outcome
}

// validateRequest folds every violated precondition into one error.
func (s *IngestionService) validateRequest(req domain.IngestionRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewValidationError("request", err.Error())
	}

	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reasons = append(reasons, describeFieldError(fe))
	}
	if len(reasons) == 1 {
		return domain.NewValidationError(fieldName(fieldErrs[0]), reasonFor(fieldErrs[0]))
	}
	return domain.NewValidationError("", strings.Join(reasons, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	return fieldName(fe) + " " + reasonFor(fe)
}

func fieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Collection":
		return "collection"
	case "ChunkSize":
		return "chunkSize"
	case "Files":
		return "files"
	case "Name":
		return "file name"
	default:
		return strings.ToLower(fe.Field())
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be a positive integer"
	case "min":
		return "must not be empty"
	default:
		return "failed " + fe.Tag()
	}
}

// record stores the batch. History failures never fail the batch.
func (s *IngestionService) record(ctx context.Context, batch domain.IngestionBatch) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(context.WithoutCancel(ctx), batch); err != nil {
		logger.Warn("Failed to record batch %s: %v", batch.ID, err)
	}
}

// Upload sends a raw file as a multipart upload.
func (s *IngestionService) Upload(ctx context.Context, fileName string, data []byte) (map[string]any, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, domain.NewValidationError("file name", "is required")
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("file", "is empty")
	}

	var out any
	if err := s.transport.Upload(ctx, pathUpload, data, fileName, &out); err != nil {
		return nil, err
	}
	switch v := out.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return map[string]any{"result": v}, nil
	}
}

// History lists recorded batches, newest first.
func (s *IngestionService) History(ctx context.Context, limit int) ([]domain.IngestionBatch, error) {
	if s.history == nil {
		return []domain.IngestionBatch{}, nil
	}
	return s.history.List(ctx, limit)
}
