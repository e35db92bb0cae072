package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventdesk/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCorruptDocumentNumber is returned when the last issued number of a kind
// cannot be parsed while seeding its counter. Numbering must not restart.
var ErrCorruptDocumentNumber = errors.New("corrupt document number")

// SequenceRepository hands out per-kind sequence values for document numbers.
type SequenceRepository interface {
	// Next increments the counter of kind and returns the new value. It must
	// run inside the transaction that inserts the document: the counter row
	// stays locked until commit and a rollback returns the value.
	Next(ctx context.Context, tx *gorm.DB, kind model.DocumentKind) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

func (r *sequenceRepo) Next(ctx context.Context, tx *gorm.DB, kind model.DocumentKind) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	db := tx.WithContext(ctx)

	var rows int64
	if err := db.Model(&model.DocumentSequence{}).Where("kind = ?", kind).Count(&rows).Error; err != nil {
		return 0, err
	}
	if rows == 0 {
		seed, err := r.lastIssued(db, kind)
		if err != nil {
			return 0, err
		}
		seq := model.DocumentSequence{Kind: kind, LastValue: seed, UpdatedAt: time.Now()}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
			return 0, err
		}
	}

	var next int64
	err := db.Raw(
		`UPDATE document_sequences SET last_value = last_value + 1, updated_at = ? WHERE kind = ? RETURNING last_value`,
		time.Now(), kind,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	if next == 0 {
		return 0, fmt.Errorf("sequence %s: counter row missing", kind)
	}
	return next, nil
}

// lastIssued reads the most recently created document of kind (insertion
// order, not lexicographic) and returns its numeric suffix, or 0 if none.
func (r *sequenceRepo) lastIssued(db *gorm.DB, kind model.DocumentKind) (int64, error) {
	var numbers []string
	var err error
	switch kind {
	case model.KindQuotation:
		err = db.Model(&model.Quotation{}).Order("id DESC").Limit(1).Pluck("quotation_number", &numbers).Error
	case model.KindReceipt:
		err = db.Model(&model.Receipt{}).Order("id DESC").Limit(1).Pluck("receipt_number", &numbers).Error
	default:
		return 0, fmt.Errorf("unknown document kind %q", kind)
	}
	if err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 0, nil
	}
	n, err := model.ParseNumber(kind, numbers[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptDocumentNumber, err)
	}
	return n, nil
}
