package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
)

func setupTestScheduler(t *testing.T) *Scheduler {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	// One connection: concurrent transactions queue instead of failing with
	// a locked database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Table{}, &models.Booking{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, 2*time.Hour, 10*time.Minute)
}

func seedTable(t *testing.T, s *Scheduler, number string, capacity int, status models.TableStatus) models.Table {
	table := models.Table{TableNumber: number, Capacity: capacity, Status: status}
	if err := s.DB.Create(&table).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return table
}

func mustBook(t *testing.T, s *Scheduler, tableID uint, date, clock string) *models.Booking {
	booking, err := s.CreateBooking(CreateRequest{
		UserID:  1,
		TableID: tableID,
		Date:    date,
		Time:    clock,
		Guests:  2,
		Name:    "Alex",
		Email:   "alex@example.com",
		Phone:   "0400000000",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func TestSlotDerivation(t *testing.T) {
	s := setupTestScheduler(t)

	start, end, err := s.Slot("2024-01-01", "18:00")
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Hour, end.Sub(start))
	assert.Equal(t, 18, start.Hour())

	_, _, err = s.Slot("", "18:00")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = s.Slot("2024-01-01", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = s.Slot("01/01/2024", "18:00")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = s.Slot("2024-01-01", "25:99")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Scenario A: a table booked 18:00-20:00 must not appear for a 19:00 query.
func TestAvailabilityExcludesOverlappingSlot(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	tables, err := s.FindAvailableTables("2024-01-01", "19:00", 2)
	assert.NoError(t, err)
	assert.Empty(t, tables)
}

// Boundary: [18:00,20:00) and [20:00,22:00) do not overlap.
func TestAvailabilityHalfOpenBoundary(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	tables, err := s.FindAvailableTables("2024-01-01", "20:00", 2)
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Equal(t, "T1", tables[0].TableNumber)

	// One minute before the end still collides.
	tables, err = s.FindAvailableTables("2024-01-01", "19:59", 2)
	assert.NoError(t, err)
	assert.Empty(t, tables)
}

func TestAvailabilityFiltersCapacityAndStatus(t *testing.T) {
	s := setupTestScheduler(t)
	seedTable(t, s, "T1", 2, models.TableAvailable)
	seedTable(t, s, "T2", 6, models.TableAvailable)
	seedTable(t, s, "T3", 8, models.TableUnavailable)

	tables, err := s.FindAvailableTables("2024-01-01", "18:00", 4)
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Equal(t, "T2", tables[0].TableNumber)
}

func TestAvailabilitySortedByTableNumber(t *testing.T) {
	s := setupTestScheduler(t)
	seedTable(t, s, "B2", 4, models.TableAvailable)
	seedTable(t, s, "A1", 4, models.TableAvailable)
	seedTable(t, s, "C3", 4, models.TableAvailable)

	tables, err := s.FindAvailableTables("2024-01-01", "18:00", 2)
	assert.NoError(t, err)
	assert.Len(t, tables, 3)
	assert.Equal(t, "A1", tables[0].TableNumber)
	assert.Equal(t, "B2", tables[1].TableNumber)
	assert.Equal(t, "C3", tables[2].TableNumber)
}

func TestAvailabilityInvalidInput(t *testing.T) {
	s := setupTestScheduler(t)
	_, err := s.FindAvailableTables("2024-01-01", "18:00", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.FindAvailableTables("not-a-date", "18:00", 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Scenario B: creating an overlapping booking on the same table fails.
func TestCreateBookingConflict(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	_, err := s.CreateBooking(CreateRequest{
		UserID: 2, TableID: t1.ID,
		Date: "2024-01-01", Time: "19:00", Guests: 2,
		Name: "Sam", Email: "sam@example.com", Phone: "0411111111",
	})
	assert.ErrorIs(t, err, ErrTableConflict)

	// Back-to-back slot is fine.
	_, err = s.CreateBooking(CreateRequest{
		UserID: 2, TableID: t1.ID,
		Date: "2024-01-01", Time: "20:00", Guests: 2,
		Name: "Sam", Email: "sam@example.com", Phone: "0411111111",
	})
	assert.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)

	_, err := s.CreateBooking(CreateRequest{
		UserID: 1, TableID: t1.ID,
		Date: "2024-01-01", Time: "18:00", Guests: 0,
		Name: "Alex", Email: "alex@example.com", Phone: "04",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Party larger than the table.
	_, err = s.CreateBooking(CreateRequest{
		UserID: 1, TableID: t1.ID,
		Date: "2024-01-01", Time: "18:00", Guests: 9,
		Name: "Alex", Email: "alex@example.com", Phone: "04",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Unknown table.
	_, err = s.CreateBooking(CreateRequest{
		UserID: 1, TableID: 999,
		Date: "2024-01-01", Time: "18:00", Guests: 2,
		Name: "Alex", Email: "alex@example.com", Phone: "04",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Scenario C: cancelling frees the slot immediately.
func TestCancelFreesSlot(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	booking := mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	tables, err := s.FindAvailableTables("2024-01-01", "19:00", 2)
	assert.NoError(t, err)
	assert.Empty(t, tables)

	_, err = s.CancelBooking(booking.ID, booking.UserID)
	assert.NoError(t, err)

	tables, err = s.FindAvailableTables("2024-01-01", "19:00", 2)
	assert.NoError(t, err)
	assert.Len(t, tables, 1)

	// And a booking in the freed slot now succeeds.
	_, err = s.CreateBooking(CreateRequest{
		UserID: 2, TableID: t1.ID,
		Date: "2024-01-01", Time: "19:00", Guests: 2,
		Name: "Sam", Email: "sam@example.com", Phone: "0411111111",
	})
	assert.NoError(t, err)
}

func TestCancelIsIdempotent(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	booking := mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	first, err := s.CancelBooking(booking.ID, booking.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, first.Status)

	second, err := s.CancelBooking(booking.ID, booking.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, second.Status)
}

func TestCancelScopedToOwner(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	booking := mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	_, err := s.CancelBooking(booking.ID, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Scenario D: moving a booking on its own table never self-conflicts.
func TestUpdateBookingExcludesSelf(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	booking := mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	updated, err := s.UpdateBooking(booking.ID, UpdateRequest{
		TableID: t1.ID, Date: "2024-01-01", Time: "20:00", Guests: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, 20, updated.ReservationStart.Hour())

	// Shifting by less than the slot length also works.
	updated, err = s.UpdateBooking(booking.ID, UpdateRequest{
		TableID: t1.ID, Date: "2024-01-01", Time: "21:00", Guests: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.Guests)
}

func TestUpdateBookingConflict(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	t2 := seedTable(t, s, "T2", 4, models.TableAvailable)
	mustBook(t, s, t1.ID, "2024-01-01", "18:00")
	other := mustBook(t, s, t2.ID, "2024-01-01", "18:00")

	// Moving the T2 booking onto T1's occupied slot must fail.
	_, err := s.UpdateBooking(other.ID, UpdateRequest{
		TableID: t1.ID, Date: "2024-01-01", Time: "19:00", Guests: 2,
	})
	assert.ErrorIs(t, err, ErrTableConflict)

	_, err = s.UpdateBooking(9999, UpdateRequest{
		TableID: t1.ID, Date: "2024-01-01", Time: "10:00", Guests: 2,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatusTransitions(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	booking := mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	approved, err := s.SetStatus(booking.ID, models.BookingApproved)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingApproved, approved.Status)

	cancelled, err := s.SetStatus(booking.ID, models.BookingCancelled)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	// Cancelled is terminal.
	_, err = s.SetStatus(booking.ID, models.BookingApproved)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.SetStatus(booking.ID, models.BookingPending)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.SetStatus(booking.ID, "Confirmed")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestActiveBookingGraceWindow(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)

	now := time.Date(2024, 1, 1, 18, 0, 0, 0, time.Local)
	mustBook(t, s, t1.ID, "2024-01-01", "18:00") // [18:00, 20:00)

	// Inside the reservation.
	active, err := s.ActiveBooking(1, now.Add(30*time.Minute))
	assert.NoError(t, err)
	assert.NotNil(t, active)

	// 5 minutes before start: within the leading grace window.
	active, err = s.ActiveBooking(1, now.Add(-5*time.Minute))
	assert.NoError(t, err)
	assert.NotNil(t, active)

	// 5 minutes after end: within the trailing grace window.
	active, err = s.ActiveBooking(1, now.Add(2*time.Hour+5*time.Minute))
	assert.NoError(t, err)
	assert.NotNil(t, active)

	// 15 minutes before start: outside.
	active, err = s.ActiveBooking(1, now.Add(-15*time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, active)

	// Wrong user.
	active, err = s.ActiveBooking(7, now)
	assert.NoError(t, err)
	assert.Nil(t, active)
}

func TestActiveBookingEarliestWinsOnOverlapGrace(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	t2 := seedTable(t, s, "T2", 4, models.TableAvailable)

	first := mustBook(t, s, t1.ID, "2024-01-01", "16:00")  // [16:00, 18:00)
	mustBook(t, s, t2.ID, "2024-01-01", "18:00")           // [18:00, 20:00)

	// 17:55 sits in the first booking and the second's leading grace.
	now := time.Date(2024, 1, 1, 17, 55, 0, 0, time.Local)
	active, err := s.ActiveBooking(1, now)
	assert.NoError(t, err)
	assert.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)
}

func TestCancelledBookingNeverActive(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	booking := mustBook(t, s, t1.ID, "2024-01-01", "18:00")

	_, err := s.CancelBooking(booking.ID, booking.UserID)
	assert.NoError(t, err)

	active, err := s.ActiveBooking(1, time.Date(2024, 1, 1, 18, 30, 0, 0, time.Local))
	assert.NoError(t, err)
	assert.Nil(t, active)
}

// Scenario E: two simultaneous creates for the same slot; exactly one wins.
func TestConcurrentCreateExactlyOneWins(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateBooking(CreateRequest{
				UserID: uint(i + 1), TableID: t1.ID,
				Date: "2024-01-01", Time: "18:00", Guests: 2,
				Name: "Guest", Email: "guest@example.com", Phone: "0400000000",
			})
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrTableConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	var count int64
	s.DB.Model(&models.Booking{}).Where("table_id = ?", t1.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

// No-overlap invariant holds after a mixed sequence of operations.
func TestNoOverlapInvariantAfterMixedOps(t *testing.T) {
	s := setupTestScheduler(t)
	t1 := seedTable(t, s, "T1", 4, models.TableAvailable)
	t2 := seedTable(t, s, "T2", 4, models.TableAvailable)

	b1 := mustBook(t, s, t1.ID, "2024-01-01", "12:00")
	mustBook(t, s, t1.ID, "2024-01-01", "14:00")
	mustBook(t, s, t2.ID, "2024-01-01", "12:00")

	s.CancelBooking(b1.ID, b1.UserID)
	mustBook(t, s, t1.ID, "2024-01-01", "12:00")
	s.UpdateBooking(b1.ID+2, UpdateRequest{TableID: t2.ID, Date: "2024-01-01", Time: "15:00", Guests: 2})

	var bookings []models.Booking
	err := s.DB.Where("status <> ?", models.BookingCancelled).Find(&bookings).Error
	assert.NoError(t, err)

	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			if a.TableID != b.TableID {
				continue
			}
			overlap := a.ReservationStart.Before(b.ReservationEnd) &&
				b.ReservationStart.Before(a.ReservationEnd)
			assert.Falsef(t, overlap, "bookings %d and %d overlap on table %d", a.ID, b.ID, a.TableID)
		}
	}
}
