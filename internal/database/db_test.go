package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uint `gorm:"primary_key"`
	Name string
}

func TestSeedIfEmpty(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db, &widget{}))

	seed := func(tx *gorm.DB) error {
		for _, n := range []string{"a", "b"} {
			if err := tx.Create(&widget{Name: n}).Error; err != nil {
				return err
			}
		}
		return nil
	}
	require.NoError(t, SeedIfEmpty(db, &widget{}, seed))
	require.NoError(t, SeedIfEmpty(db, &widget{}, seed))

	var count int
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, 2, count)
}

func TestSeedRollsBack(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db, &widget{}))

	err = SeedIfEmpty(db, &widget{}, func(tx *gorm.DB) error {
		tx.Create(&widget{Name: "half"})
		return errors.New("boom")
	})
	assert.Error(t, err)

	var count int
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, 0, count)
}

func TestInitDB(t *testing.T) {
	require.NoError(t, InitDB("sqlite3", MemoryDSN))
	assert.NotNil(t, GetDB())
	assert.NoError(t, CloseDB())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("nosuchdriver", "x")
	assert.Error(t, err)
}

func TestConnHonorsContext(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	conn, err := Conn(context.Background(), db)
	require.NoError(t, err)
	v, ok := conn.Get("ctx")
	require.True(t, ok)
	assert.Equal(t, context.Background(), v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Conn(ctx, db)
	assert.ErrorIs(t, err, context.Canceled)
}
