// Package product is the sample catalogue module: model, repository wiring,
// service and the /product controller.
package product

// Product is the stored entity and its JSON view.
type Product struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
}

// Form is the payload accepted by POST and PUT.
type Form struct {
	Name        string  `json:"name" rules:"required|max:100"`
	Description string  `json:"description" rules:"required"`
	Price       float64 `json:"price" rules:"numeric|gte:0|lte:22.5"`
}

func (f Form) product() Product {
	return Product{Name: f.Name, Description: f.Description, Price: f.Price}
}

// Settings is produced by the catalogue configuration component.
type Settings struct {
	// Name is sent in the "info" header of the list endpoint.
	Name string
}
