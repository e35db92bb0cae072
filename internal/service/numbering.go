package service

import (
	"context"

	"eventdesk/internal/model"
	"eventdesk/internal/repository"

	"gorm.io/gorm"
)

// NumberingService assigns human-readable document numbers (QT-00001,
// RC-00001). Next must be called inside the transaction that inserts the
// document; the per-kind counter row stays locked until that transaction
// ends, so concurrent creators of the same kind are serialized and a rollback
// gives the number back.
type NumberingService interface {
	Next(ctx context.Context, tx *gorm.DB, kind model.DocumentKind) (string, error)
}

type numberingService struct {
	seq repository.SequenceRepository
}

func NewNumberingService(seq repository.SequenceRepository) NumberingService {
	return &numberingService{seq: seq}
}

func (s *numberingService) Next(ctx context.Context, tx *gorm.DB, kind model.DocumentKind) (string, error) {
	n, err := s.seq.Next(ctx, tx, kind)
	if err != nil {
		return "", err
	}
	return model.FormatNumber(kind, n), nil
}
