package model

import "time"

// Default list seed values.
const (
	DefaultListName  = "My Day"
	DefaultListColor = "#0078D4"
	DefaultListIcon  = "sun"
)

// List is a named grouping of tasks. Exactly one list is the default.
type List struct {
	ID        string    `json:"id" yaml:"id" db:"id"`
	Name      string    `json:"name" yaml:"name" db:"name"`
	Color     *string   `json:"color,omitempty" yaml:"color,omitempty" db:"color"`
	Icon      *string   `json:"icon,omitempty" yaml:"icon,omitempty" db:"icon"`
	IsDefault bool      `json:"is_default" yaml:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
	Order     int       `json:"order" yaml:"order" db:"order_index"`
}

// CreateListInput carries the fields accepted when creating a list.
type CreateListInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// ListPatch is a partial update of a list. Unset fields are left unchanged.
type ListPatch struct {
	Name  Optional[string]  `json:"name"`
	Color Optional[*string] `json:"color"`
	Icon  Optional[*string] `json:"icon"`
	Order Optional[int]     `json:"order"`
}

// Apply copies every set field of p onto l.
func (p ListPatch) Apply(l *List) {
	p.Name.ApplyTo(&l.Name)
	p.Color.ApplyTo(&l.Color)
	p.Icon.ApplyTo(&l.Icon)
	p.Order.ApplyTo(&l.Order)
}
