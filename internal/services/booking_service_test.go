package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
	"github.com/28dev-al/recovery-office-backend/internal/repo"
)

// newServiceDB opens an isolated in-memory database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedClientAndService(t *testing.T, db *gorm.DB) (clientID, serviceID string) {
	t.Helper()

	c, err := repo.CreateClient(context.Background(), db, &domain.Client{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	s, err := repo.CreateService(context.Background(), db, &domain.Service{
		Name: "Investment Fraud Recovery", DurationMinutes: 90, Price: 500, IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return c.ID, s.ID
}

func TestBookingCreate_MissingFields(t *testing.T) {
	s := NewBookingService(newServiceDB(t))

	cases := []CreateBookingInput{
		{},
		{ClientID: "c1"},
		{ServiceID: "s1"},
		{ClientID: "   ", ServiceID: "s1"},
	}
	for _, in := range cases {
		_, err := s.Create(context.Background(), in)
		if !errors.Is(err, ErrMissingBookingFields) {
			t.Fatalf("Create(%+v) err = %v; want ErrMissingBookingFields", in, err)
		}
	}
	if ErrMissingBookingFields.Error() != "Missing required fields: clientId and serviceId" {
		t.Fatalf("error message = %q", ErrMissingBookingFields.Error())
	}
}

func TestBookingCreate_NegativeEstimatedValueRejected(t *testing.T) {
	db := newServiceDB(t)
	clientID, serviceID := seedClientAndService(t, db)
	s := NewBookingService(db)

	_, err := s.Create(context.Background(), CreateBookingInput{
		ClientID: clientID, ServiceID: serviceID, EstimatedValue: -250,
	})
	if !errors.Is(err, ErrNegativeEstimatedValue) {
		t.Fatalf("Create err = %v; want ErrNegativeEstimatedValue", err)
	}

	var count int64
	if err := db.Model(&domain.Booking{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected booking was persisted; count = %d", count)
	}
}

func TestBookingCreate_DefaultsAndReference(t *testing.T) {
	db := newServiceDB(t)
	clientID, serviceID := seedClientAndService(t, db)
	s := NewBookingService(db)

	before := time.Now().UnixMilli()
	b, err := s.Create(context.Background(), CreateBookingInput{
		ClientID:  clientID,
		ServiceID: serviceID,
		TimeSlot:  "10:00-11:30",
	})
	after := time.Now().UnixMilli()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.Status != domain.StatusConfirmed {
		t.Fatalf("status = %q; want default confirmed", b.Status)
	}
	if !strings.HasPrefix(b.Reference, "RO-") {
		t.Fatalf("reference = %q; want RO- prefix", b.Reference)
	}
	var ms int64
	if _, err := fmt.Sscanf(b.Reference, "RO-%d", &ms); err != nil {
		t.Fatalf("reference %q not RO-<millis>: %v", b.Reference, err)
	}
	if ms < before || ms > after {
		t.Fatalf("reference millis %d outside [%d, %d]", ms, before, after)
	}
}

func TestBookingCreate_ExplicitStatusKept(t *testing.T) {
	db := newServiceDB(t)
	clientID, serviceID := seedClientAndService(t, db)
	s := NewBookingService(db)

	b, err := s.Create(context.Background(), CreateBookingInput{
		ClientID: clientID, ServiceID: serviceID, Status: domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != domain.StatusPending {
		t.Fatalf("status = %q; want pending", b.Status)
	}
}

func TestBookingList_PopulatedColumns(t *testing.T) {
	db := newServiceDB(t)
	clientID, serviceID := seedClientAndService(t, db)
	s := NewBookingService(db)

	if _, err := s.Create(context.Background(), CreateBookingInput{
		ClientID: clientID, ServiceID: serviceID, EstimatedValue: 1200,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.ClientName != "Jane Doe" {
		t.Fatalf("clientName = %q", v.ClientName)
	}
	if v.ServiceName != "Investment Fraud Recovery" {
		t.Fatalf("serviceName = %q", v.ServiceName)
	}
	if v.EstimatedValue != 1200 {
		t.Fatalf("estimatedValue = %v", v.EstimatedValue)
	}
}

func TestBookingList_FallbacksForDeletedReferences(t *testing.T) {
	db := newServiceDB(t)
	clientID, serviceID := seedClientAndService(t, db)
	s := NewBookingService(db)

	if _, err := s.Create(context.Background(), CreateBookingInput{
		ClientID: clientID, ServiceID: serviceID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Delete the referenced rows; the booking must stay fully renderable.
	if err := db.Delete(&domain.Client{}, "id = ?", clientID).Error; err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if err := db.Delete(&domain.Service{}, "id = ?", serviceID).Error; err != nil {
		t.Fatalf("delete service: %v", err)
	}

	views, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List after deletes: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].ClientName != UnknownClient {
		t.Fatalf("clientName = %q; want %q", views[0].ClientName, UnknownClient)
	}
	if views[0].ServiceName != UnknownService {
		t.Fatalf("serviceName = %q; want %q", views[0].ServiceName, UnknownService)
	}
}

func TestBookingList_NewestFirst(t *testing.T) {
	db := newServiceDB(t)
	s := NewBookingService(db)

	t1 := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"b-old", "b-mid", "b-new"} {
		b := domain.Booking{
			ID: id, ClientID: "c", ServiceID: "s",
			Status: domain.StatusPending, Reference: "RO-1",
			CreatedAt: t1.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	views, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if views[0].ID != "b-new" || views[2].ID != "b-old" {
		t.Fatalf("order not newest-first: %s .. %s", views[0].ID, views[2].ID)
	}
}

func TestBookingList_MissingReferenceGetsPseudo(t *testing.T) {
	db := newServiceDB(t)
	s := NewBookingService(db)

	// A row written without a reference (legacy data).
	b := domain.Booking{ID: "abcdef1234567890", ClientID: "c", ServiceID: "s", Status: domain.StatusPending}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	views, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := PseudoReference("abcdef1234567890")
	if views[0].Reference != want {
		t.Fatalf("reference = %q; want %q", views[0].Reference, want)
	}
}

func TestListDashboard_ExtraColumns(t *testing.T) {
	db := newServiceDB(t)
	clientID, serviceID := seedClientAndService(t, db)
	s := NewBookingService(db)

	if _, err := s.Create(context.Background(), CreateBookingInput{
		ClientID: clientID, ServiceID: serviceID, UrgencyLevel: "high",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views, err := s.ListDashboard(context.Background())
	if err != nil {
		t.Fatalf("ListDashboard: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.ClientEmail != "jane@example.com" || v.ServicePrice != 500 || v.UrgencyLevel != "high" {
		t.Fatalf("dashboard columns wrong: %+v", v)
	}
}

func TestNewReference(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	want := fmt.Sprintf("RO-%d", at.UnixMilli())
	if got := NewReference(at); got != want {
		t.Fatalf("NewReference = %q; want %q", got, want)
	}
}

func TestPseudoReference_DeterministicAndShortIDs(t *testing.T) {
	id := "3f6c2b1e-9a87-4c3d-b123-0f9e8d7c6b5a"
	first := PseudoReference(id)
	second := PseudoReference(id)
	if first != second {
		t.Fatalf("PseudoReference not deterministic: %q vs %q", first, second)
	}
	if first != "RO-8D7C6B5A" {
		t.Fatalf("PseudoReference = %q", first)
	}

	if got := PseudoReference("abc"); got != "RO-ABC" {
		t.Fatalf("short id: %q", got)
	}
	if got := PseudoReference(""); got != "RO-" {
		t.Fatalf("empty id: %q", got)
	}
}
