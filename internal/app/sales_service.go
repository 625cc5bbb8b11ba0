package app

import (
	"context"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/clock"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/aiaxcartpremium/aiaxshop/internal/expiry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleRepository interface {
	CreateSale(ctx context.Context, sale domain.SaleRecord) error
	GetSale(ctx context.Context, saleID string) (domain.SaleRecord, error)
	// ListSales returns newest-first; buyer filters by exact label when set.
	ListSales(ctx context.Context, buyer string) ([]domain.SaleRecord, error)
	UpdateSale(ctx context.Context, sale domain.SaleRecord) error
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

// SalesService reads the ledger and handles the two non-allocation write
// paths: manual sales and admin corrections. Fulfillment appends to the
// ledger through its own transaction, never through this service.
type SalesService struct {
	repo  SaleRepository
	clock clock.Clock
}

func NewSalesService(repo SaleRepository, clk clock.Clock) *SalesService {
	return &SalesService{
		repo:  repo,
		clock: clk,
	}
}

type ManualSaleInput struct {
	Buyer        string
	Source       string
	ProductID    string
	AccountType  string
	Duration     string
	PurchaseDate time.Time
	BonusDays    int
	Credential   domain.Credential
	Price        decimal.Decimal
}

// RecordManual appends a sale that happened outside the website order flow
// (e.g. a chat sale). It carries no order back-reference and touches no
// inventory; the admin hands over a credential they sourced themselves.
func (s *SalesService) RecordManual(ctx context.Context, in ManualSaleInput) (domain.SaleRecord, error) {
	if in.Buyer == "" {
		return domain.SaleRecord{}, domain.ErrBuyerRequired
	}
	if in.ProductID == "" {
		return domain.SaleRecord{}, domain.ErrInvalidID
	}
	if in.Price.IsNegative() {
		return domain.SaleRecord{}, domain.ErrInvalidPrice
	}
	purchase := in.PurchaseDate
	if purchase.IsZero() {
		purchase = s.clock.Now()
	}
	base, adjusted, err := expiry.Compute(purchase, in.Duration, in.BonusDays)
	if err != nil {
		return domain.SaleRecord{}, err
	}
	source := in.Source
	if source == "" {
		source = "manual"
	}

	sale := domain.SaleRecord{
		ID:             uuid.NewString(),
		OrderID:        nil,
		Buyer:          in.Buyer,
		Source:         source,
		ProductID:      in.ProductID,
		AccountType:    in.AccountType,
		Duration:       in.Duration,
		PurchaseDate:   purchase,
		BonusDays:      in.BonusDays,
		BaseExpiry:     base,
		AdjustedExpiry: adjusted,
		Credential:     in.Credential,
		Price:          in.Price,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return domain.SaleRecord{}, err
	}
	return sale, nil
}

// SalePatch is a partial update for admin corrections. Nil fields are left
// untouched.
type SalePatch struct {
	Buyer        *string
	Source       *string
	AccountType  *string
	Duration     *string
	PurchaseDate *time.Time
	BonusDays    *int
	Login        *string
	Secret       *string
	Profile      *string
	PIN          *string
	Price        *decimal.Decimal
}

// Amend applies a manual correction to a ledger entry. Expiries are
// re-derived from the patched purchase date, duration and bonus days, so a
// record never carries dates inconsistent with its own fields.
func (s *SalesService) Amend(ctx context.Context, saleID string, patch SalePatch) (domain.SaleRecord, error) {
	if saleID == "" {
		return domain.SaleRecord{}, domain.ErrInvalidID
	}
	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	if patch.Buyer != nil {
		if *patch.Buyer == "" {
			return domain.SaleRecord{}, domain.ErrBuyerRequired
		}
		sale.Buyer = *patch.Buyer
	}
	if patch.Source != nil {
		sale.Source = *patch.Source
	}
	if patch.AccountType != nil {
		sale.AccountType = *patch.AccountType
	}
	if patch.Duration != nil {
		sale.Duration = *patch.Duration
	}
	if patch.PurchaseDate != nil {
		sale.PurchaseDate = *patch.PurchaseDate
	}
	if patch.BonusDays != nil {
		sale.BonusDays = *patch.BonusDays
	}
	if patch.Login != nil {
		sale.Credential.Login = *patch.Login
	}
	if patch.Secret != nil {
		sale.Credential.Secret = *patch.Secret
	}
	if patch.Profile != nil {
		sale.Credential.Profile = *patch.Profile
	}
	if patch.PIN != nil {
		sale.Credential.PIN = *patch.PIN
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return domain.SaleRecord{}, domain.ErrInvalidPrice
		}
		sale.Price = *patch.Price
	}

	base, adjusted, err := expiry.Compute(sale.PurchaseDate, sale.Duration, sale.BonusDays)
	if err != nil {
		return domain.SaleRecord{}, err
	}
	sale.BaseExpiry = base
	sale.AdjustedExpiry = adjusted

	if err := s.repo.UpdateSale(ctx, sale); err != nil {
		return domain.SaleRecord{}, err
	}
	return sale, nil
}

func (s *SalesService) List(ctx context.Context, buyer string) ([]domain.SaleRecord, error) {
	return s.repo.ListSales(ctx, buyer)
}

func (s *SalesService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.TotalRevenue(ctx)
}
