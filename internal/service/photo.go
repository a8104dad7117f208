package service

import (
	"context"
	"crypto/ecdh"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhendriks/photoregister/internal/logger"
	"github.com/jhendriks/photoregister/internal/metrics"
	"github.com/jhendriks/photoregister/internal/model"
	"github.com/jhendriks/photoregister/internal/validation"
	"github.com/jhendriks/photoregister/internal/watermark"
)

// Encrypter seals a payload for a recipient key into a compact JWE string.
type Encrypter interface {
	Encrypt(plaintext []byte, recipient *ecdh.PublicKey) (string, error)
}

type Photo struct {
	photoStore    model.PhotoStore
	txLog         model.TransactionLog
	embedder      *watermark.Embedder
	encrypter     Encrypter
	metrics       *metrics.Metrics
	logger        *logger.Logger
	lookupTimeout time.Duration
	now           func() time.Time
}

func NewPhoto(
	photoStore model.PhotoStore,
	txLog model.TransactionLog,
	embedder *watermark.Embedder,
	encrypter Encrypter,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	lookupTimeout time.Duration,
) *Photo {
	return &Photo{
		photoStore:    photoStore,
		txLog:         txLog,
		embedder:      embedder,
		encrypter:     encrypter,
		metrics:       metrics,
		logger:        logger,
		lookupTimeout: lookupTimeout,
		now:           time.Now,
	}
}

// photoPayload is the JSON the JWE envelope carries.
type photoPayload struct {
	Photo    string `json:"photo"`
	Format   string `json:"format"`
	Encoding string `json:"encoding"`
}

// ProcessRequest runs one request through the full pipeline: validate,
// look up, watermark, encrypt. A transaction id is minted up front and a
// transaction record is written for every outcome, including rejections.
func (s *Photo) ProcessRequest(ctx context.Context, req model.PhotoRequest) (model.PhotoResponse, error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveRequestLatency(time.Since(start))
	}()

	transactionID := uuid.New()
	log := s.logger.With("transaction_id", transactionID.String())

	if err := validation.ValidateIdentifier(req.Identifier); err != nil {
		s.record(ctx, log, transactionID, model.OutcomeRejected)
		return model.PhotoResponse{}, err
	}
	if err := validation.ValidateBirthDate(req.BirthDate, s.now()); err != nil {
		s.record(ctx, log, transactionID, model.OutcomeRejected)
		return model.PhotoResponse{}, err
	}
	recipient, err := validation.ValidatePublicKey(req.RecipientPublicKey)
	if err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			s.record(ctx, log, transactionID, model.OutcomeRejected)
		} else {
			log.Error("recipient key structurally invalid", "error", err)
			s.record(ctx, log, transactionID, model.OutcomeFailed)
		}
		return model.PhotoResponse{}, err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	asset, err := s.photoStore.Lookup(lookupCtx, req.Identifier, req.BirthDate)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.record(ctx, log, transactionID, model.OutcomeNotFound)
			return model.PhotoResponse{}, model.ErrNotFound
		}
		log.Error("photo lookup failed", "error", err)
		s.record(ctx, log, transactionID, model.OutcomeFailed)
		return model.PhotoResponse{}, &model.UpstreamError{Err: err}
	}

	watermarked, err := s.embedder.Apply(asset.Bytes, transactionID)
	if err != nil {
		log.Error("watermark embedding failed", "error", err)
		s.record(ctx, log, transactionID, model.OutcomeFailed)
		return model.PhotoResponse{}, err
	}

	payload, err := json.Marshal(photoPayload{
		Photo:    base64.StdEncoding.EncodeToString(watermarked),
		Format:   asset.Format,
		Encoding: asset.Encoding,
	})
	if err != nil {
		log.Error("payload encoding failed", "error", err)
		s.record(ctx, log, transactionID, model.OutcomeFailed)
		return model.PhotoResponse{}, &model.ProcessingError{Stage: "payload encoding", Err: err}
	}

	envelope, err := s.encrypter.Encrypt(payload, recipient)
	if err != nil {
		log.Error("encryption failed", "error", err)
		s.record(ctx, log, transactionID, model.OutcomeFailed)
		return model.PhotoResponse{}, err
	}

	s.record(ctx, log, transactionID, model.OutcomeResponded)
	log.Info("photo request served", "photo_id", asset.PhotoID)

	return model.PhotoResponse{
		TransactionID:  transactionID.String(),
		PhotoID:        asset.PhotoID,
		EncryptedPhoto: envelope,
	}, nil
}

// record writes the audit entry. A failing audit sink must not mask the
// request outcome, so the error is logged and swallowed.
func (s *Photo) record(ctx context.Context, log *logger.Logger, transactionID uuid.UUID, outcome model.Outcome) {
	s.metrics.IncrementOutcome(string(outcome))

	rec := model.TransactionRecord{
		ID:        transactionID,
		Outcome:   outcome,
		CreatedAt: s.now().UTC(),
	}
	if err := s.txLog.Record(ctx, rec); err != nil {
		log.Error("failed to record transaction", "outcome", string(outcome), "error", err)
	}
}
