package loader

import "context"

// Row is one warehouse row keyed by schema field name.
type Row map[string]interface{}

// Field describes one column of the destination table.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema is the ordered column list of the destination table.
type Schema []Field

// TableSchema returns the fixed schema of the price table.
// Field order matters for some target systems and must not change.
func TableSchema() Schema {
	return Schema{
		{Name: "date_extracted", Type: "TIMESTAMP"},
		{Name: "product_id", Type: "INTEGER"},
		{Name: "product_name", Type: "STRING"},
		{Name: "color", Type: "STRING"},
		{Name: "shop_name", Type: "STRING"},
		{Name: "price", Type: "FLOAT"},
	}
}

// Loader represents a warehouse ingestion service
type Loader interface {
	// Load appends the full batch of rows to the destination table
	Load(ctx context.Context, rows []Row, schema Schema) error
}
