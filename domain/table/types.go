package table

import (
	"math"

	"chorda/domain/core"
)

// Kind declares how a column's values are interpreted statistically.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindNumeric     Kind = "numeric"
)

// Column is one named variable of the input table. Exactly one of Labels or
// Values is populated, depending on Kind. Columns are value objects: once
// constructed they are never mutated.
type Column struct {
	Name   core.VariableKey `json:"name"`
	Kind   Kind             `json:"kind"`
	Labels []string         `json:"labels,omitempty"` // categorical observations
	Values []float64        `json:"values,omitempty"` // numeric observations
}

// Len returns the number of observations in the column.
func (c Column) Len() int {
	if c.Kind == KindCategorical {
		return len(c.Labels)
	}
	return len(c.Values)
}

// Validate enforces the input-boundary contract: no missing values may reach
// the statistics. Empty labels and NaN/Inf numerics count as missing.
func (c Column) Validate() error {
	if c.Len() == 0 {
		return core.ErrEmptyInput
	}
	switch c.Kind {
	case KindCategorical:
		for _, l := range c.Labels {
			if l == "" {
				return core.NewValidationError(string(c.Name), "empty categorical label")
			}
		}
	case KindNumeric:
		for _, v := range c.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return core.NewValidationError(string(c.Name), "non-finite numeric value")
			}
		}
	default:
		return core.NewValidationError(string(c.Name), "unknown column kind")
	}
	return nil
}

// Table is a rectangular collection of equal-length columns.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    int      `json:"rows"`
}

// New builds a table from columns, enforcing equal lengths and the
// missing-value precondition.
func New(columns ...Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, core.ErrEmptyInput
	}
	rows := columns[0].Len()
	for _, c := range columns {
		if c.Len() != rows {
			return nil, core.NewShapeMismatchError("table", rows, c.Len())
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// Column looks up a column by name.
func (t *Table) Column(name core.VariableKey) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Categorical returns the label series for a categorical column.
func (t *Table) Categorical(name core.VariableKey) ([]string, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, core.NewColumnNotFoundError(string(name))
	}
	if c.Kind != KindCategorical {
		return nil, core.NewValidationError(string(name), "column is not categorical")
	}
	return c.Labels, nil
}

// Numeric returns the value series for a numeric column.
func (t *Table) Numeric(name core.VariableKey) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, core.NewColumnNotFoundError(string(name))
	}
	if c.Kind != KindNumeric {
		return nil, core.NewValidationError(string(name), "column is not numeric")
	}
	return c.Values, nil
}

// Names lists column names in declaration order.
func (t *Table) Names() []core.VariableKey {
	names := make([]core.VariableKey, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
