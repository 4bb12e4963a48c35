package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
)

func TestNotFoundError_Unwrap(t *testing.T) {
	err := domain.NewNotFound("order-42")

	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatal("expected errors.Is to match ErrOrderNotFound")
	}
	if !strings.Contains(err.Error(), "order-42") {
		t.Fatalf("expected key in message, got %q", err.Error())
	}
}

func TestInvalidTransitionError_Unwrap(t *testing.T) {
	err := domain.NewInvalidTransition(domain.OrderStatusShipped)

	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatal("expected errors.Is to match ErrInvalidTransition")
	}
	if !strings.Contains(err.Error(), "SHIPPED") {
		t.Fatalf("expected source status in message, got %q", err.Error())
	}
}
