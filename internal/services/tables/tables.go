// Package tables is the table registry: physical tables with a binary
// occupancy flag. The flag is only ever mutated here.
package tables

import (
	"errors"

	"gorm.io/gorm"

	"comanda-system/internal/apperr"
	"comanda-system/internal/database/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	Number   int    `json:"number" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
	Location string `json:"location"`
}

type UpdateInput struct {
	Capacity *int    `json:"capacity"`
	Location *string `json:"location"`
}

func (s *Service) Create(in CreateInput) (*models.DiningTable, error) {
	if in.Capacity <= 0 {
		return nil, apperr.Validationf("capacity must be a positive integer")
	}

	table := models.DiningTable{
		Number:   in.Number,
		Capacity: in.Capacity,
		Location: in.Location,
	}
	if err := s.db.Create(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("table number %d already exists", in.Number)
		}
		return nil, err
	}
	return &table, nil
}

func (s *Service) List() ([]models.DiningTable, error) {
	var out []models.DiningTable
	err := s.db.Order("number").Find(&out).Error
	return out, err
}

func (s *Service) Get(id uint) (*models.DiningTable, error) {
	var table models.DiningTable
	if err := s.db.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("table %d not found", id)
		}
		return nil, err
	}
	return &table, nil
}

func (s *Service) Update(id uint, in UpdateInput) (*models.DiningTable, error) {
	table, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return nil, apperr.Validationf("capacity must be a positive integer")
		}
		table.Capacity = *in.Capacity
	}
	if in.Location != nil {
		table.Location = *in.Location
	}
	if err := s.db.Save(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// Occupy sets the flag unconditionally: repeated calls leave the table
// occupied.
func (s *Service) Occupy(id uint) (*models.DiningTable, error) {
	return s.setOccupied(id, true)
}

// Release sets the flag unconditionally: releasing a free table is a no-op.
func (s *Service) Release(id uint) (*models.DiningTable, error) {
	return s.setOccupied(id, false)
}

func (s *Service) setOccupied(id uint, occupied bool) (*models.DiningTable, error) {
	table, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(table).Update("occupied", occupied).Error; err != nil {
		return nil, err
	}
	table.Occupied = occupied
	return table, nil
}

// Reserve flips a free table to occupied inside tx. The guarded UPDATE makes
// the occupancy check and the flip a single statement, so two concurrent
// orders cannot both seat the same table.
func Reserve(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.DiningTable{}).
		Where("id = ? AND occupied = ?", tableID, false).
		Update("occupied", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.DiningTable{}).Where("id = ?", tableID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFoundf("table %d not found", tableID)
		}
		return apperr.Conflictf("table %d is already occupied", tableID)
	}
	return nil
}

// Free releases a table inside tx, unconditionally.
func Free(tx *gorm.DB, tableID uint) error {
	return tx.Model(&models.DiningTable{}).
		Where("id = ?", tableID).
		Update("occupied", false).Error
}
