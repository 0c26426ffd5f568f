package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/test"
)

func TestCustomerCreateNormalizes(t *testing.T) {
	repo := test.NewCustomerRepositoryStub()
	uc := NewCustomerUseCase(repo)

	created, err := uc.Create(context.Background(), &model.Customer{
		Name:    "  Bashir  ",
		Address: " 12 Canal Road ",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "Bashir" || created.Address != "12 Canal Road" {
		t.Fatalf("fields not trimmed: %+v", created)
	}
	if created.PaymentType != model.PaymentCash {
		t.Fatalf("payment type = %q, want default cash", created.PaymentType)
	}
}

func TestCustomerCreateValidation(t *testing.T) {
	repo := test.NewCustomerRepositoryStub()
	uc := NewCustomerUseCase(repo)

	tests := []struct {
		name     string
		customer model.Customer
	}{
		{"empty name", model.Customer{Address: "12 Canal Road"}},
		{"blank address", model.Customer{Name: "Bashir", Address: "   "}},
		{"negative price", model.Customer{Name: "Bashir", Address: "12 Canal Road", PricePerCan: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := tt.customer
			if _, err := uc.Create(context.Background(), &customer); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}
}

func TestCustomerGetAndList(t *testing.T) {
	repo := test.NewCustomerRepositoryStub()
	uc := NewCustomerUseCase(repo)
	added := repo.Add("Bashir", "12 Canal Road")

	got, err := uc.Get(context.Background(), added.ID)
	if err != nil || got.Name != "Bashir" {
		t.Fatalf("get = %+v, %v", got, err)
	}

	if _, err := uc.Get(context.Background(), 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("missing customer error = %v, want not found", err)
	}

	listed, err := uc.List(context.Background())
	if err != nil || len(listed) != 1 {
		t.Fatalf("list = %v, %v", listed, err)
	}
}
