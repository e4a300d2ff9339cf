package product

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/km-arc/go-force/framework/persistence"
)

// Repository stores products by id.
type Repository = persistence.Repository[Product, int64]

var identity = persistence.Identity[Product, int64]{
	Get: func(p Product) int64 { return p.ID },
	Set: func(p Product, id int64) Product { p.ID = id; return p },
}

// Table maps Product onto the products table.
var Table = persistence.Table{
	Name:     "products",
	IDColumn: "id",
	Columns:  []string{"name", "description", "price"},
}

// Samples seed the in-memory repository.
var Samples = []Product{
	{Name: "Chair", Description: "Oak dining chair", Price: 19.9},
	{Name: "Lamp", Description: "Desk lamp", Price: 12.5},
	{Name: "Mug", Description: "Ceramic mug", Price: 4.75},
}

// NewMemoryRepository returns an in-memory repository holding seed.
func NewMemoryRepository(seed ...Product) (Repository, error) {
	repo := persistence.NewMemory(identity, persistence.Sequence())
	for _, p := range seed {
		if _, err := repo.Save(context.Background(), p); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// NewSQLRepository returns a repository over the products table.
func NewSQLRepository(db *sqlx.DB) Repository {
	return persistence.NewSQL(db, Table, identity)
}
