package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventdesk/internal/apierror"
	"eventdesk/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// runTx executes fn inside a GORM transaction bound to ctx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseDate parses a YYYY-MM-DD value. The message is empty on success.
func parseDate(field, value string) (time.Time, string) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Sprintf("%s: date has wrong format, use YYYY-MM-DD", field)
	}
	return t, ""
}

// requireClient checks that the referenced client exists. It runs before the
// document transaction is opened.
func requireClient(ctx context.Context, clients repository.ClientRepository, id uint) error {
	if _, err := clients.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Validation("Invalid request body",
				fmt.Sprintf("client: invalid pk \"%d\" - object does not exist", id))
		}
		return err
	}
	return nil
}

// mapDocumentWriteErr turns persistence errors of a document write into API
// errors.
func mapDocumentWriteErr(kind string, err error) error {
	var apiErr *apierror.Error
	switch {
	case errors.As(err, &apiErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierror.NotFound(kind + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierror.Conflict(kind + " number allocation conflict, retry the request")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierror.Validation("Invalid request body", "client: object does not exist")
	case errors.Is(err, repository.ErrCorruptDocumentNumber):
		log.Error().Err(err).Str("kind", kind).Msg("document numbering halted")
		return err
	}
	return err
}
