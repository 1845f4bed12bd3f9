// Package purchase implements the credit purchase flow: a static catalog of
// credit packages, a purchase operation that grants the purchased credits,
// and the one-time signup bonus for new accounts.
//
// Payment processing happens upstream; by the time Purchase is called the
// charge has already succeeded, so the ledger grant is the whole operation.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/service/ledger"
)

// signupBonusDescription is recorded on the ledger for the welcome grant.
const signupBonusDescription = "Signup bonus"

// ErrPackageNotFound indicates an unknown credit package ID.
var ErrPackageNotFound = errors.New("credit package not found")

// catalog is the fixed set of purchasable credit packages, cheapest first.
var catalog = []domain.CreditPackage{
	{ID: "starter", Name: "Starter Pack", Credits: 50, PriceCents: 499},
	{ID: "standard", Name: "Standard Pack", Credits: 120, PriceCents: 999},
	{ID: "pro", Name: "Pro Pack", Credits: 300, PriceCents: 1999},
	{ID: "mega", Name: "Mega Pack", Credits: 700, PriceCents: 3999},
}

// Service sells credit packages and seeds new accounts.
type Service interface {
	// Catalog returns the purchasable packages, cheapest first.
	Catalog() []domain.CreditPackage

	// Purchase credits the account with the package's credits and returns
	// the new balance. Unknown package IDs fail with ErrPackageNotFound.
	Purchase(ctx context.Context, accountID uuid.UUID, packageID string) (int64, error)

	// GrantSignupBonus credits the welcome bonus to a new account and
	// returns the new balance. A zero configured bonus is a no-op.
	GrantSignupBonus(ctx context.Context, accountID uuid.UUID) (int64, error)
}

type serviceImpl struct {
	ledger      ledger.Service
	logger      *slog.Logger
	signupBonus int64
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a purchase service backed by the given ledger.
// signupBonus is the number of credits granted to new accounts and may be
// zero to disable the bonus.
func NewService(ledgerService ledger.Service, signupBonus int64, logger *slog.Logger) Service {
	if ledgerService == nil {
		panic("ledgerService cannot be nil")
	}
	if signupBonus < 0 {
		panic("signupBonus cannot be negative")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &serviceImpl{
		ledger:      ledgerService,
		logger:      logger.With(slog.String("component", "purchase_service")),
		signupBonus: signupBonus,
	}
}

// Catalog implements the Service interface.
func (s *serviceImpl) Catalog() []domain.CreditPackage {
	out := make([]domain.CreditPackage, len(catalog))
	copy(out, catalog)
	return out
}

// Purchase implements the Service interface.
func (s *serviceImpl) Purchase(
	ctx context.Context,
	accountID uuid.UUID,
	packageID string,
) (int64, error) {
	pkg, ok := findPackage(packageID)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrPackageNotFound, packageID)
	}

	description := fmt.Sprintf("Purchased %s", pkg.Name)
	newBalance, err := s.ledger.Credit(ctx, accountID, pkg.Credits, description, domain.CategoryPurchase)
	if err != nil {
		return 0, fmt.Errorf("crediting purchase: %w", err)
	}

	s.logger.InfoContext(ctx, "credit package purchased",
		slog.String("account_id", accountID.String()),
		slog.String("package_id", pkg.ID),
		slog.Int64("credits", pkg.Credits),
		slog.Int64("new_balance", newBalance))
	return newBalance, nil
}

// GrantSignupBonus implements the Service interface.
func (s *serviceImpl) GrantSignupBonus(ctx context.Context, accountID uuid.UUID) (int64, error) {
	if s.signupBonus == 0 {
		return s.ledger.GetBalance(ctx, accountID)
	}

	newBalance, err := s.ledger.Credit(
		ctx, accountID, s.signupBonus, signupBonusDescription, domain.CategorySignupBonus)
	if err != nil {
		return 0, fmt.Errorf("crediting signup bonus: %w", err)
	}

	s.logger.InfoContext(ctx, "signup bonus granted",
		slog.String("account_id", accountID.String()),
		slog.Int64("credits", s.signupBonus))
	return newBalance, nil
}

func findPackage(packageID string) (domain.CreditPackage, bool) {
	for _, pkg := range catalog {
		if pkg.ID == packageID {
			return pkg, true
		}
	}
	return domain.CreditPackage{}, false
}
