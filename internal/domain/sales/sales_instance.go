package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// InstanceStatus is the occupancy state of a sales instance
type InstanceStatus string

const (
	InstanceOccupied InstanceStatus = "Occupied"
	InstanceReserved InstanceStatus = "Reserved"
	InstanceClosed   InstanceStatus = "Closed"
)

// IsValid checks if the instance status is known
func (s InstanceStatus) IsValid() bool {
	switch s {
	case InstanceOccupied, InstanceReserved, InstanceClosed:
		return true
	}
	return false
}

// SalesGroup clusters an instance's orders by their batch code, so a round
// of ordering stays together when instances merge or split.
type SalesGroup struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	SalesInstanceID uuid.UUID        `gorm:"type:uuid;not null;index"`
	BatchCode       string           `gorm:"size:50;not null"`
	OrderIDs        shared.UUIDList  `gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the database table name
func (SalesGroup) TableName() string {
	return "sales_groups"
}

// SalesInstance is a live visit at a sales location (a table being served,
// a delivery in flight). Orders accumulate on it until it closes.
type SalesInstance struct {
	shared.BusinessAggregateRoot
	SalesLocationID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	DailyReferenceNumber int64          `gorm:"not null;index"`
	Status               InstanceStatus `gorm:"size:20;not null;default:'Occupied'"`
	ResponsibleUserID    uuid.UUID      `gorm:"type:uuid;not null"`
	OpenedByID           uuid.UUID      `gorm:"type:uuid;not null"`
	ClosedByID           *uuid.UUID     `gorm:"type:uuid"`
	Covers               int            `gorm:"not null;default:0"`
	Groups               []SalesGroup   `gorm:"foreignKey:SalesInstanceID;constraint:OnDelete:CASCADE"`
	OpenedAt             time.Time      `gorm:"not null"`
	ClosedAt             *time.Time
}

// TableName returns the database table name
func (SalesInstance) TableName() string {
	return "sales_instances"
}

// NewSalesInstance opens an instance at a sales location
func NewSalesInstance(businessID, locationID, openedBy uuid.UUID, dailyRef int64, status InstanceStatus, covers int) (*SalesInstance, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Sales location ID cannot be empty")
	}
	if openedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Opening user ID cannot be empty")
	}
	if status == "" {
		status = InstanceOccupied
	}
	if !status.IsValid() || status == InstanceClosed {
		return nil, shared.NewDomainError("INVALID_STATUS", "New instances must be Occupied or Reserved")
	}
	if covers < 0 {
		return nil, shared.NewDomainError("INVALID_COVERS", "Cover count cannot be negative")
	}

	return &SalesInstance{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SalesLocationID:       locationID,
		DailyReferenceNumber:  dailyRef,
		Status:                status,
		ResponsibleUserID:     openedBy,
		OpenedByID:            openedBy,
		Covers:                covers,
		OpenedAt:              time.Now(),
	}, nil
}

// IsClosed reports whether the instance has been closed
func (si *SalesInstance) IsClosed() bool {
	return si.Status == InstanceClosed
}

// Occupy converts a reservation into an occupied instance
func (si *SalesInstance) Occupy() error {
	if si.IsClosed() {
		return shared.NewDomainError("INSTANCE_CLOSED", "Cannot occupy a closed instance")
	}
	si.Status = InstanceOccupied
	si.Touch()
	return nil
}

// ChangeResponsible reassigns the employee responsible for the instance
func (si *SalesInstance) ChangeResponsible(userID uuid.UUID) error {
	if si.IsClosed() {
		return shared.NewDomainError("INSTANCE_CLOSED", "Cannot reassign a closed instance")
	}
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Responsible user ID cannot be empty")
	}
	si.ResponsibleUserID = userID
	si.Touch()
	return nil
}

// AttachOrder adds an order reference to the group with the given batch
// code, creating the group when it does not exist yet.
func (si *SalesInstance) AttachOrder(batchCode string, orderID uuid.UUID) error {
	if si.IsClosed() {
		return shared.NewDomainError("INSTANCE_CLOSED", "Cannot attach orders to a closed instance")
	}
	code := strings.TrimSpace(batchCode)
	if code == "" {
		return shared.NewDomainError("INVALID_BATCH_CODE", "Order batch code cannot be empty")
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	si.Status = InstanceOccupied
	for i := range si.Groups {
		if si.Groups[i].BatchCode == code {
			si.Groups[i].OrderIDs = append(si.Groups[i].OrderIDs, orderID)
			si.Groups[i].UpdatedAt = time.Now()
			si.Touch()
			return nil
		}
	}
	now := time.Now()
	si.Groups = append(si.Groups, SalesGroup{
		ID:              uuid.New(),
		SalesInstanceID: si.ID,
		BatchCode:       code,
		OrderIDs:        shared.UUIDList{orderID},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	si.Touch()
	return nil
}

// DetachOrder removes an order reference; empty groups are dropped
func (si *SalesInstance) DetachOrder(orderID uuid.UUID) error {
	for gi := range si.Groups {
		for oi, id := range si.Groups[gi].OrderIDs {
			if id == orderID {
				si.Groups[gi].OrderIDs = append(si.Groups[gi].OrderIDs[:oi], si.Groups[gi].OrderIDs[oi+1:]...)
				if len(si.Groups[gi].OrderIDs) == 0 {
					si.Groups = append(si.Groups[:gi], si.Groups[gi+1:]...)
				}
				si.Touch()
				return nil
			}
		}
	}
	return shared.NewDomainError("ORDER_NOT_ATTACHED", "Order is not attached to this instance")
}

// OrderRefs returns every attached order ID across all groups
func (si *SalesInstance) OrderRefs() []uuid.UUID {
	var out []uuid.UUID
	for _, g := range si.Groups {
		out = append(out, g.OrderIDs...)
	}
	return out
}

// IsEmpty reports whether no orders remain attached
func (si *SalesInstance) IsEmpty() bool {
	return len(si.OrderRefs()) == 0
}

// TakeGroup withdraws a whole batch-code group for transfer to another
// instance, returning its order IDs.
func (si *SalesInstance) TakeGroup(batchCode string) ([]uuid.UUID, error) {
	if si.IsClosed() {
		return nil, shared.NewDomainError("INSTANCE_CLOSED", "Cannot transfer from a closed instance")
	}
	code := strings.TrimSpace(batchCode)
	for i := range si.Groups {
		if si.Groups[i].BatchCode == code {
			ids := append([]uuid.UUID(nil), si.Groups[i].OrderIDs...)
			si.Groups = append(si.Groups[:i], si.Groups[i+1:]...)
			si.Touch()
			return ids, nil
		}
	}
	return nil, shared.NewDomainError("GROUP_NOT_FOUND", "No sales group with that batch code")
}

// ReceiveGroup merges transferred orders into this instance under their
// original batch code.
func (si *SalesInstance) ReceiveGroup(batchCode string, orderIDs []uuid.UUID) error {
	if si.IsClosed() {
		return shared.NewDomainError("INSTANCE_CLOSED", "Cannot transfer into a closed instance")
	}
	for _, id := range orderIDs {
		if err := si.AttachOrder(batchCode, id); err != nil {
			return err
		}
	}
	return nil
}

// Close finalizes the instance. The caller must verify that no attached
// order is still billing-open before calling.
func (si *SalesInstance) Close(closedBy uuid.UUID) error {
	if si.IsClosed() {
		return shared.NewDomainError("INSTANCE_CLOSED", "Instance is already closed")
	}
	if closedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Closing user ID cannot be empty")
	}
	now := time.Now()
	si.Status = InstanceClosed
	si.ClosedByID = &closedBy
	si.ClosedAt = &now
	si.Touch()
	return nil
}
