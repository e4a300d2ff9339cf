package persistence_test

import "github.com/km-arc/go-force/framework/persistence"

type item struct {
	ID    int64   `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price"`
}

var itemIdentity = persistence.Identity[item, int64]{
	Get: func(i item) int64 { return i.ID },
	Set: func(i item, id int64) item { i.ID = id; return i },
}
