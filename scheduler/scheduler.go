// Package scheduler answers "which tables are free for N guests at time T"
// and guards the one hard invariant of the system: no two non-cancelled
// bookings on the same table may overlap.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/booknbite/backend/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Scheduler performs availability queries and conflict-checked booking
// writes. SlotDuration and GraceWindow come from configuration.
type Scheduler struct {
	DB           *gorm.DB
	SlotDuration time.Duration
	GraceWindow  time.Duration

	mu         sync.Mutex
	tableLocks map[uint]*sync.Mutex
}

func New(db *gorm.DB, slotDuration, graceWindow time.Duration) *Scheduler {
	return &Scheduler{
		DB:           db,
		SlotDuration: slotDuration,
		GraceWindow:  graceWindow,
		tableLocks:   make(map[uint]*sync.Mutex),
	}
}

// tableLock returns the mutex guarding check-then-write sequences for one
// table. Serialising per table closes the race where two concurrent
// requests both pass the conflict check and both insert.
func (s *Scheduler) tableLock(tableID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.tableLocks[tableID]
	if !ok {
		l = &sync.Mutex{}
		s.tableLocks[tableID] = l
	}
	return l
}

// Slot combines a calendar date and wall-clock time into the half-open
// reservation interval [start, start+SlotDuration).
func (s *Scheduler) Slot(date, clock string) (start, end time.Time, err error) {
	if date == "" || clock == "" {
		return time.Time{}, time.Time{}, ErrInvalidInput
	}
	start, err = time.ParseInLocation(dateLayout+"T"+timeLayout, date+"T"+clock, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidInput
	}
	return start, start.Add(s.SlotDuration), nil
}

// overlapping selects non-cancelled bookings on tableID that intersect
// [start, end) using the half-open test: s1 < e2 AND s2 < e1. A booking
// ending exactly at start does not conflict.
func (s *Scheduler) overlapping(tx *gorm.DB, tableID uint, start, end time.Time) *gorm.DB {
	return tx.Model(&models.Booking{}).
		Where("table_id = ?", tableID).
		Where("status <> ?", models.BookingCancelled).
		Where("reservation_start < ? AND reservation_end > ?", end, start)
}

// FindAvailableTables returns every Available table with enough capacity
// that has no overlapping non-cancelled booking in the requested slot,
// sorted by table number. Read-only.
func (s *Scheduler) FindAvailableTables(date, clock string, guests int) ([]models.Table, error) {
	if guests < 1 {
		return nil, ErrInvalidInput
	}
	start, end, err := s.Slot(date, clock)
	if err != nil {
		return nil, err
	}

	occupied := s.DB.Model(&models.Booking{}).
		Select("table_id").
		Where("status <> ?", models.BookingCancelled).
		Where("reservation_start < ? AND reservation_end > ?", end, start)

	var tables []models.Table
	err = s.DB.
		Where("capacity >= ?", guests).
		Where("status = ?", models.TableAvailable).
		Where("id NOT IN (?)", occupied).
		Order("table_number ASC").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// CreateRequest carries the booking details for CreateBooking.
type CreateRequest struct {
	UserID         uint
	TableID        uint
	Date           string
	Time           string
	Guests         int
	Name           string
	Email          string
	Phone          string
	SpecialRequest string
}

// CreateBooking inserts a Pending booking after a conflict check. The check
// and the insert run under the table's lock inside one transaction, so a
// losing concurrent request observes the winner's row and gets
// ErrTableConflict.
func (s *Scheduler) CreateBooking(req CreateRequest) (*models.Booking, error) {
	if req.Guests < 1 || req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, ErrInvalidInput
	}
	start, end, err := s.Slot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	lock := s.tableLock(req.TableID)
	lock.Lock()
	defer lock.Unlock()

	var booking models.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, req.TableID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: table %d", ErrNotFound, req.TableID)
			}
			return err
		}
		if req.Guests > table.Capacity {
			return fmt.Errorf("%w: party of %d exceeds table capacity %d",
				ErrInvalidInput, req.Guests, table.Capacity)
		}

		var conflicts int64
		if err := s.overlapping(tx, req.TableID, start, end).Count(&conflicts).Error; err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrTableConflict
		}

		booking = models.Booking{
			Name:             req.Name,
			Email:            req.Email,
			Phone:            req.Phone,
			Guests:           req.Guests,
			SpecialRequest:   req.SpecialRequest,
			Status:           models.BookingPending,
			UserID:           req.UserID,
			TableID:          req.TableID,
			Table:            table,
			ReservationStart: start,
			ReservationEnd:   end,
		}
		// The loaded Table rides along for the response only.
		return tx.Omit(clause.Associations).Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateRequest carries the mutable fields for UpdateBooking.
type UpdateRequest struct {
	TableID uint
	Date    string
	Time    string
	Guests  int
}

// UpdateBooking moves a booking to a new slot and/or table. The conflict
// check excludes the booking itself, so shifting a booking on its own table
// never self-conflicts.
func (s *Scheduler) UpdateBooking(bookingID uint, req UpdateRequest) (*models.Booking, error) {
	if req.Guests < 1 {
		return nil, ErrInvalidInput
	}
	start, end, err := s.Slot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	lock := s.tableLock(req.TableID)
	lock.Lock()
	defer lock.Unlock()

	var booking models.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		var table models.Table
		if err := tx.First(&table, req.TableID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: table %d", ErrNotFound, req.TableID)
			}
			return err
		}
		if req.Guests > table.Capacity {
			return fmt.Errorf("%w: party of %d exceeds table capacity %d",
				ErrInvalidInput, req.Guests, table.Capacity)
		}

		var conflicts int64
		if err := s.overlapping(tx, req.TableID, start, end).
			Where("id <> ?", bookingID).
			Count(&conflicts).Error; err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrTableConflict
		}

		booking.TableID = req.TableID
		booking.Table = table
		booking.Guests = req.Guests
		booking.ReservationStart = start
		booking.ReservationEnd = end
		return tx.Omit(clause.Associations).Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking sets the caller's booking to Cancelled, freeing its slot
// immediately. Cancelling an already-cancelled booking is a no-op.
func (s *Scheduler) CancelBooking(bookingID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return &booking, nil
	}
	booking.Status = models.BookingCancelled
	if err := s.DB.Omit(clause.Associations).Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// SetStatus applies an admin status change, honouring the state machine:
// Pending -> Approved, Pending|Approved -> Cancelled, Cancelled terminal.
// Setting the current status again is a no-op.
func (s *Scheduler) SetStatus(bookingID uint, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.Status == status {
		return &booking, nil
	}
	if !booking.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: cannot move booking from %s to %s",
			ErrInvalidInput, booking.Status, status)
	}
	booking.Status = status
	if err := s.DB.Omit(clause.Associations).Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ActiveBooking returns the user's booking whose grace-extended interval
// [start-grace, end+grace) covers now, or nil when none does. When several
// match (adjacent reservations with touching grace windows) the earliest
// reservation start wins.
func (s *Scheduler) ActiveBooking(userID uint, now time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("Table").
		Where("user_id = ?", userID).
		Where("status <> ?", models.BookingCancelled).
		Where("reservation_start <= ?", now.Add(s.GraceWindow)).
		Where("reservation_end > ?", now.Add(-s.GraceWindow)).
		Order("reservation_start ASC").
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}
