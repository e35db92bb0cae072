package repository

import (
	"context"
	"time"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"

	"gorm.io/gorm"
)

type QuotationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, q *model.Quotation) error
	UpdateFields(ctx context.Context, tx *gorm.DB, q *model.Quotation) error
	// ReplaceItems deletes every item of the quotation and inserts items in
	// their given order. Callers run it inside the document's transaction.
	ReplaceItems(ctx context.Context, tx *gorm.DB, quotationID uint, items []model.QuotationItem) error
	// Lock takes the row lock of the quotation for the rest of tx so concurrent
	// updates of the same document are serialized.
	Lock(ctx context.Context, tx *gorm.DB, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Quotation, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Quotation, error)
	List(ctx context.Context, filter dto.DocumentFilter) ([]model.Quotation, int64, error)
	ListAll(ctx context.Context) ([]model.Quotation, error)
	Delete(ctx context.Context, id uint) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type quotationRepo struct{ db *gorm.DB }

func NewQuotationRepository(db *gorm.DB) QuotationRepository { return &quotationRepo{db: db} }

func (r *quotationRepo) DB() *gorm.DB { return r.db }

func (r *quotationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *quotationRepo) Create(ctx context.Context, tx *gorm.DB, q *model.Quotation) error {
	return r.conn(tx).WithContext(ctx).Omit("Client", "Items").Create(q).Error
}

func (r *quotationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, q *model.Quotation) error {
	return r.conn(tx).WithContext(ctx).
		Omit("Client", "Items", "QuotationNumber", "CreatedAt").
		Save(q).Error
}

func (r *quotationRepo) ReplaceItems(ctx context.Context, tx *gorm.DB, quotationID uint, items []model.QuotationItem) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Where("quotation_id = ?", quotationID).Delete(&model.QuotationItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].QuotationID = quotationID
		items[i].Position = i
	}
	return db.Create(&items).Error
}

func (r *quotationRepo) Lock(ctx context.Context, tx *gorm.DB, id uint) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&model.Quotation{}).Where("id = ?", id).
		UpdateColumn("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quotationRepo) FindByID(ctx context.Context, id uint) (*model.Quotation, error) {
	return r.FindByIDTx(ctx, nil, id)
}

func (r *quotationRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Quotation, error) {
	var q model.Quotation
	err := r.conn(tx).WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quotationRepo) List(ctx context.Context, filter dto.DocumentFilter) ([]model.Quotation, int64, error) {
	var quotations []model.Quotation
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Quotation{})
	if filter.ClientID != 0 {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Order("created_at DESC").Order("id DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&quotations).Error
	return quotations, total, err
}

func (r *quotationRepo) ListAll(ctx context.Context) ([]model.Quotation, error) {
	var quotations []model.Quotation
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Order("id ASC").
		Find(&quotations).Error
	return quotations, err
}

func (r *quotationRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", id).Delete(&model.QuotationItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Quotation{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
