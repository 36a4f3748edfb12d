package ports

import (
	"chorda/domain/table"
)

// TableReader is the input boundary: a tabular collaborator supplies named,
// kinded, equal-length columns and guarantees no missing values reach the
// statistics core.
type TableReader interface {
	Read() (*table.Table, error)
}
