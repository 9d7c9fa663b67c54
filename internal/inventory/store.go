package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jinzhu/gorm"

	"smartserve/internal/database"
)

// User-facing messages
const (
	MsgAdded         = "Item added to inventory!"
	MsgUpdated       = "Inventory item updated!"
	MsgDeleted       = "Item deleted from inventory!"
	MsgAddMissing    = "Please fill all fields to add an item."
	MsgUpdateMissing = "Please fill all fields to update item."
)

var (
	ErrNotFound    = errors.New("inventory item not found")
	ErrInvalidItem = errors.New("inventory item is incomplete")
)

// Store manages inventory rows
type Store struct {
	mu sync.Mutex
	db *gorm.DB
}

// NewStore migrates the inventory table and seeds the sample items
func NewStore(db *gorm.DB) (*Store, error) {
	if err := database.Migrate(db, &Item{}); err != nil {
		return nil, err
	}
	err := database.SeedIfEmpty(db, &Item{}, func(tx *gorm.DB) error {
		for _, it := range seedItems {
			it := it
			if err := tx.Create(&it).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed inventory: %w", err)
	}
	return &Store{db: db}, nil
}

func validate(it Item) error {
	if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Unit) == "" ||
		it.Quantity < 0 || it.MinStock < 0 {
		return ErrInvalidItem
	}
	return nil
}

// List returns all items ordered by id
func (s *Store) List(ctx context.Context) ([]Item, error) {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := db.Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// Get returns the item with id
func (s *Store) Get(ctx context.Context, id int) (*Item, error) {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var it Item
	err = db.Where("id = ?", id).First(&it).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", id, err)
	}
	return &it, nil
}

// Add stores it under the next free id, one past the current maximum
func (s *Store) Add(ctx context.Context, it Item) (*Item, error) {
	if err := validate(it); err != nil {
		return nil, err
	}

	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var top struct{ ID int }
	if err := db.Table(Item{}.TableName()).Select("COALESCE(MAX(id), 0) AS id").Scan(&top).Error; err != nil {
		return nil, fmt.Errorf("failed to allocate id: %w", err)
	}
	it.ID = top.ID + 1
	if err := db.Create(&it).Error; err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return &it, nil
}

// Update replaces every field of the item with it.ID
func (s *Store) Update(ctx context.Context, it Item) (*Item, error) {
	if err := validate(it); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, it.ID); err != nil {
		return nil, err
	}
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := db.Save(&it).Error; err != nil {
		return nil, fmt.Errorf("failed to update item %d: %w", it.ID, err)
	}
	return &it, nil
}

// Delete removes the item with id
func (s *Store) Delete(ctx context.Context, id int) error {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&Item{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LowStock returns the items below their minimum stock level
func (s *Store) LowStock(ctx context.Context) ([]Item, error) {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := db.Where("quantity < min_stock").Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return items, nil
}
