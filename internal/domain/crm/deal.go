package crm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DealStage represents the pipeline stage of a deal
type DealStage string

const (
	DealStageLead        DealStage = "lead"
	DealStageContacted   DealStage = "contacted"
	DealStageProposal    DealStage = "proposal"
	DealStageNegotiation DealStage = "negotiation"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

// IsValid checks if the stage is a valid DealStage
func (s DealStage) IsValid() bool {
	switch s {
	case DealStageLead, DealStageContacted, DealStageProposal,
		DealStageNegotiation, DealStageWon, DealStageLost:
		return true
	}
	return false
}

// String returns the string representation of DealStage
func (s DealStage) String() string {
	return string(s)
}

// IsClosed returns true if the deal has reached a terminal stage
func (s DealStage) IsClosed() bool {
	return s == DealStageWon || s == DealStageLost
}

// DefaultProbability is the default win probability per stage, used when the
// caller does not supply one
func (s DealStage) DefaultProbability() int {
	switch s {
	case DealStageLead:
		return 10
	case DealStageContacted:
		return 25
	case DealStageProposal:
		return 50
	case DealStageNegotiation:
		return 75
	case DealStageWon:
		return 100
	default:
		return 0
	}
}

// Deal represents a sales pipeline opportunity. Deals are forecast only and
// never feed the revenue reconciliation; recognized money comes from sales
// and invoices.
type Deal struct {
	shared.BaseAggregateRoot
	Title             string          `gorm:"type:varchar(200);not null" json:"title"`
	CustomerID        *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"` // Soft reference, nulled when the customer goes away
	CustomerName      string          `gorm:"type:varchar(200)" json:"customer_name"`       // Denormalized snapshot
	Value             decimal.Decimal `gorm:"type:decimal(18,4);not null;check:value >= 0" json:"value"`
	Stage             DealStage       `gorm:"type:varchar(20);not null;default:'lead'" json:"stage"`
	Probability       int             `gorm:"not null;default:0;check:probability >= 0 AND probability <= 100" json:"probability"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (Deal) TableName() string {
	return "deals"
}

// NewDeal creates a new deal in the lead stage
func NewDeal(title string, customerID *uuid.UUID, customerName string, value decimal.Decimal, expectedClose *time.Time, notes string) (*Deal, error) {
	if title == "" {
		return nil, shared.NewValidationError("Deal title is required")
	}
	if len(title) > 200 {
		return nil, shared.NewValidationError("Deal title cannot exceed 200 characters")
	}
	if value.IsNegative() {
		return nil, shared.NewValidationError("Deal value cannot be negative")
	}

	return &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Value:             value,
		Stage:             DealStageLead,
		Probability:       DealStageLead.DefaultProbability(),
		ExpectedCloseDate: expectedClose,
		Notes:             notes,
	}, nil
}

// Update modifies the deal's title, value, expected close date and notes
func (d *Deal) Update(title string, value decimal.Decimal, expectedClose *time.Time, notes string) error {
	if d.Stage.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update a %s deal", d.Stage))
	}
	if title == "" {
		return shared.NewValidationError("Deal title is required")
	}
	if value.IsNegative() {
		return shared.NewValidationError("Deal value cannot be negative")
	}

	d.Title = title
	d.Value = value
	d.ExpectedCloseDate = expectedClose
	d.Notes = notes
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// MoveToStage advances the deal to a new stage. Probability snaps to the
// stage default; terminal stages stamp ClosedAt.
func (d *Deal) MoveToStage(stage DealStage) error {
	if !stage.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Invalid deal stage %q", stage))
	}
	if d.Stage.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move a %s deal", d.Stage))
	}

	d.Stage = stage
	d.Probability = stage.DefaultProbability()
	if stage.IsClosed() {
		now := time.Now()
		d.ClosedAt = &now
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetProbability overrides the win probability for an open deal
func (d *Deal) SetProbability(probability int) error {
	if probability < 0 || probability > 100 {
		return shared.NewValidationError("Probability must be between 0 and 100")
	}
	if d.Stage.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot adjust a %s deal", d.Stage))
	}

	d.Probability = probability
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// WeightedValue returns value * probability, the forecast contribution
func (d *Deal) WeightedValue() decimal.Decimal {
	return d.Value.Mul(decimal.NewFromInt(int64(d.Probability))).Div(decimal.NewFromInt(100))
}

// DetachCustomer drops the customer reference while keeping the denormalized
// name, used when the referenced customer is deleted.
func (d *Deal) DetachCustomer() {
	d.CustomerID = nil
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
