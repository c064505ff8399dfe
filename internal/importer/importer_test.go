package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"customer-manager/internal/domain"
	customersvc "customer-manager/internal/service/customer"
	"github.com/rs/zerolog"
)

type stubCreator struct {
	items []customersvc.Input
	errs  map[string]error
}

func (s *stubCreator) Create(_ context.Context, in customersvc.Input) (*domain.Customer, error) {
	if err, ok := s.errs[in.Email]; ok {
		return nil, err
	}
	s.items = append(s.items, in)
	return &domain.Customer{ID: "id", Name: in.Name, Email: in.Email}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `email,name,surname,mobile,initials
ada@example.com,Ada,Lovelace,+44 20 7946 0958,A
alan@example.com,Alan,Turing,,AM
,,,,
`
	creator := &stubCreator{}
	imp := NewCSVImporter(strings.NewReader(csvData), creator, zerolog.Nop())

	res, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 0 {
		t.Fatalf("expected 2 imported, got %+v", res)
	}
	first := creator.items[0]
	if first.Name != "Ada" || first.Surname != "Lovelace" || first.Email != "ada@example.com" || first.Mobile != "+44 20 7946 0958" || first.Initials != "A" {
		t.Fatalf("unexpected row mapping: %+v", first)
	}
	if creator.items[1].Mobile != "" {
		t.Fatalf("expected empty mobile, got %q", creator.items[1].Mobile)
	}
}

func TestCSVImporter_SkipsRejectedRows(t *testing.T) {
	csvData := "name,surname,email\nAda,Lovelace,ada@example.com\nDup,Row,dup@example.com\nBad,Row,not-an-email\n"
	creator := &stubCreator{errs: map[string]error{
		"dup@example.com": domain.Conflict("Email address already in use"),
		"not-an-email":    domain.Validation("Customer validation failed: email: Invalid email."),
	}}
	imp := NewCSVImporter(strings.NewReader(csvData), creator, zerolog.Nop())

	res, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 2 {
		t.Fatalf("expected 1 imported 2 skipped, got %+v", res)
	}
}

func TestCSVImporter_StopsOnStoreFailure(t *testing.T) {
	csvData := "name,surname,email\nAda,Lovelace,ada@example.com\nAlan,Turing,alan@example.com\n"
	storeErr := errors.New("connection refused")
	creator := &stubCreator{errs: map[string]error{"ada@example.com": storeErr}}
	imp := NewCSVImporter(strings.NewReader(csvData), creator, zerolog.Nop())

	res, err := imp.Run(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if res.Imported != 0 || len(creator.items) != 0 {
		t.Fatalf("expected run to stop at first row, got %+v", res)
	}
}

func TestCSVImporter_MissingRequiredColumn(t *testing.T) {
	imp := NewCSVImporter(strings.NewReader("name,email\nAda,ada@example.com\n"), &stubCreator{}, zerolog.Nop())
	if _, err := imp.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "surname") {
		t.Fatalf("expected missing surname column error, got %v", err)
	}
}
