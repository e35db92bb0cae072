package repository

import (
	"context"
	"time"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"

	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rc *model.Receipt) error
	UpdateFields(ctx context.Context, tx *gorm.DB, rc *model.Receipt) error
	// ReplaceItems deletes every item of the receipt and inserts items in
	// their given order. Callers run it inside the document's transaction.
	ReplaceItems(ctx context.Context, tx *gorm.DB, receiptID uint, items []model.ReceiptItem) error
	// Lock takes the row lock of the receipt for the rest of tx so concurrent
	// updates of the same document are serialized.
	Lock(ctx context.Context, tx *gorm.DB, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Receipt, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Receipt, error)
	List(ctx context.Context, filter dto.DocumentFilter) ([]model.Receipt, int64, error)
	ListAll(ctx context.Context) ([]model.Receipt, error)
	Delete(ctx context.Context, id uint) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) DB() *gorm.DB { return r.db }

func (r *receiptRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *receiptRepo) Create(ctx context.Context, tx *gorm.DB, rc *model.Receipt) error {
	return r.conn(tx).WithContext(ctx).Omit("Client", "Items").Create(rc).Error
}

func (r *receiptRepo) UpdateFields(ctx context.Context, tx *gorm.DB, rc *model.Receipt) error {
	return r.conn(tx).WithContext(ctx).
		Omit("Client", "Items", "ReceiptNumber", "CreatedAt").
		Save(rc).Error
}

func (r *receiptRepo) ReplaceItems(ctx context.Context, tx *gorm.DB, receiptID uint, items []model.ReceiptItem) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Where("receipt_id = ?", receiptID).Delete(&model.ReceiptItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].ReceiptID = receiptID
		items[i].Position = i
	}
	return db.Create(&items).Error
}

func (r *receiptRepo) Lock(ctx context.Context, tx *gorm.DB, id uint) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&model.Receipt{}).Where("id = ?", id).
		UpdateColumn("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *receiptRepo) FindByID(ctx context.Context, id uint) (*model.Receipt, error) {
	return r.FindByIDTx(ctx, nil, id)
}

func (r *receiptRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Receipt, error) {
	var rc model.Receipt
	err := r.conn(tx).WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&rc, id).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *receiptRepo) List(ctx context.Context, filter dto.DocumentFilter) ([]model.Receipt, int64, error) {
	var receipts []model.Receipt
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Receipt{})
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
		Find(&receipts).Error
	return receipts, total, err
}

func (r *receiptRepo) ListAll(ctx context.Context) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Order("id ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", id).Delete(&model.ReceiptItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Receipt{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
