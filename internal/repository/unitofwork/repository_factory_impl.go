package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type repositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &repositoryFactory{db: db}
}

// NewUnitOfWork returns a unit bound to the pool, not a transaction.
// Repositories run directly against the pool until Begin is called.
func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db)
}
