package inventory

import (
	"encoding/json"
	"time"
)

// Item is one ingredient in kitchen storage
type Item struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit"`
	MinStock  int       `json:"minStock"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the table name stable if the type is renamed
func (Item) TableName() string {
	return "inventory_items"
}

// MarshalJSON adds the derived stock status
func (i Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return json.Marshal(struct {
		plain
		Status Status `json:"status"`
		Label  string `json:"statusLabel"`
	}{plain(i), i.Status(), i.Status().Label()})
}

// Status represents the stock status of an inventory item
type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusLow        Status = "low"
	StatusOutOfStock Status = "out_of_stock"
)

// Status reports whether the item needs reordering
func (i Item) Status() Status {
	switch {
	case i.Quantity <= 0:
		return StatusOutOfStock
	case i.Quantity < i.MinStock:
		return StatusLow
	default:
		return StatusInStock
	}
}

// Label is the status text shown next to an item
func (s Status) Label() string {
	switch s {
	case StatusLow:
		return "Low Stock"
	case StatusOutOfStock:
		return "Out of Stock"
	default:
		return "In Stock"
	}
}

// Unit is a unit of measurement for an inventory item
type Unit string

const (
	// Weight units
	UnitGram     Unit = "g"
	UnitKilogram Unit = "kg"

	// Volume units
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"

	// Count units
	UnitPiece Unit = "pc"
	UnitBox   Unit = "box"
)

var seedItems = []Item{
	{ID: 1, Name: "Chicken Breast", Quantity: 50, Unit: string(UnitKilogram), MinStock: 10},
	{ID: 2, Name: "Rice", Quantity: 100, Unit: string(UnitKilogram), MinStock: 20},
	{ID: 3, Name: "Tomatoes", Quantity: 30, Unit: string(UnitKilogram), MinStock: 5},
	{ID: 4, Name: "Onions", Quantity: 40, Unit: string(UnitKilogram), MinStock: 8},
	{ID: 5, Name: "Pasta", Quantity: 70, Unit: string(UnitKilogram), MinStock: 15},
	{ID: 6, Name: "Ground Beef", Quantity: 40, Unit: string(UnitKilogram), MinStock: 8},
	{ID: 7, Name: "Potatoes", Quantity: 60, Unit: string(UnitKilogram), MinStock: 12},
	{ID: 8, Name: "Spinach", Quantity: 20, Unit: string(UnitKilogram), MinStock: 4},
	{ID: 9, Name: "Cheese", Quantity: 25, Unit: string(UnitKilogram), MinStock: 5},
	{ID: 10, Name: "Bell Peppers", Quantity: 35, Unit: string(UnitKilogram), MinStock: 7},
}
