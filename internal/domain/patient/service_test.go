package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

type mockRepo struct {
	items map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, httperr.NotFound("patient")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.items[p.ID]; !ok {
		return httperr.NotFound("patient")
	}
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return httperr.NotFound("patient")
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		result = append(result, p)
	}
	return result, len(result), nil
}

func validPatient() *Patient {
	return &Patient{
		Name:           "Asha Verma",
		Age:            34,
		Gender:         "Female",
		ContactNumber:  "9876543210",
		Address:        "12 MG Road",
		MedicalHistory: "none",
	}
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPatient()

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if p.Allergies == nil || p.CurrentMedications == nil {
		t.Fatal("expected list fields to default to empty slices")
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing name", func(p *Patient) { p.Name = "" }},
		{"negative age", func(p *Patient) { p.Age = -1 }},
		{"unknown gender", func(p *Patient) { p.Gender = "X" }},
		{"missing contact", func(p *Patient) { p.ContactNumber = "" }},
		{"missing address", func(p *Patient) { p.Address = "" }},
		{"bad blood group", func(p *Patient) { bg := "C+"; p.BloodGroup = &bg }},
	}
	for _, tc := range cases {
		p := validPatient()
		tc.mutate(p)
		err := svc.Create(context.Background(), p)
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		var appErr *httperr.Error
		if !asAppError(err, &appErr) || appErr.Kind != httperr.KindValidation {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func asAppError(err error, target **httperr.Error) bool {
	e, ok := err.(*httperr.Error)
	if ok {
		*target = e
	}
	return ok
}

func TestUpdatePatient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPatient()
	p.ID = uuid.New()

	err := svc.Update(context.Background(), p)
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeletePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
