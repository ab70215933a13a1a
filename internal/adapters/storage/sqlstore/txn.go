package sqlstore

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// txn envuelve una transacción gorm. Implementa clients.Tx, appointments.Tx
// y checkout.Tx; cada repo expone sólo los métodos de su interfaz.
type txn struct {
	db   *gorm.DB
	done bool
}

func begin(ctx context.Context, db *gorm.DB) (*txn, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, errors.Wrap(tx.Error, "begin")
	}
	return &txn{db: tx}, nil
}

func (t *txn) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	return wrap(t.db.Commit().Error, "commit")
}

// Rollback es no-op después de Commit, así puede ir en un defer.
func (t *txn) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return wrap(t.db.Rollback().Error, "rollback")
}

func (t *txn) conn(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}
