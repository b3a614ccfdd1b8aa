package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
)

const (
	maxPackageTypeLength = 100
	maxWeight            = 999_999.99
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is a shipping request tracked from creation to final disposition.
// It is the aggregate root for everything that happens to a package.
//
// Order follows these invariants:
//   - id, order number, creator, sender, receiver, address and package type are always set
//   - weight is positive
//   - the collection price is present and positive exactly when the order is a collection
//   - deliveryUserID and shippingFee are set together by Assign
//   - actualDeliveryDate is set once, on the first entry into Delivered
//   - an order in Returned always has delivery notes
//
// Every mutator validates all of its inputs before it writes a single field,
// so a failed call leaves the order exactly as it was.
//
// Who may call which mutator is decided by services.OrderLifecycle; the
// aggregate only guards state consistency.
type Order struct {
	id          kernel.UUID
	number      string
	creatorID   kernel.UUID
	sender      Contact
	receiver    Contact
	address     string
	packageType string
	weight      float64
	notes       string
	collection  Collection

	packageImage string

	status             Status
	deliveryUserID     *kernel.UUID
	shippingFee        *kernel.Money
	deliveryNotes      string
	actualDeliveryDate *time.Time

	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	// version is the optimistic concurrency token of the persisted row.
	version int

	events []DomainEvent

	isConstructed bool
}

// NewOrder creates a pending order with a freshly generated order number.
//
// Parameters:
//   - id: unique identifier for the order
//   - creatorID: the user placing the order; immutable afterwards
//   - sender, receiver: validated contacts
//   - address: delivery address, required
//   - packageType: free-form category such as "documents", required
//   - weight: kilograms, greater than 0, rounded to two decimals
//   - notes: optional instructions
//   - collection: cash-on-delivery settings, NoCollection() if none
//   - now: creation time
//
// Example:
//
//	sender, _ := order.NewContact("sender", "Mona", senderPhone)
//	receiver, _ := order.NewContact("receiver", "Ali", receiverPhone)
//	price, _ := kernel.ParseMoney("50")
//	collection, _ := order.NewCollection(true, &price)
//	o, err := order.NewOrder(kernel.NewUUID(), creatorID, sender, receiver,
//	    "12 Nile St", "documents", 1.5, "", collection, time.Now())
//
// The order starts in Pending with no delivery user and raises a CreatedEvent.
func NewOrder(
	id kernel.UUID,
	creatorID kernel.UUID,
	sender Contact,
	receiver Contact,
	address string,
	packageType string,
	weight float64,
	notes string,
	collection Collection,
	now time.Time,
) (*Order, error) {
	o := &Order{
		number:        NewNumber(now),
		status:        Pending,
		collection:    collection,
		notes:         strings.TrimSpace(notes),
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCreator(creatorID),
		o.setContacts(sender, receiver),
		o.setAddress(address),
		o.setPackageType(packageType),
		o.setWeight(weight),
	); err != nil {
		return nil, err
	}

	o.raise(CreatedEvent{OrderID: o.id, OrderNumber: o.number, CreatorID: o.creatorID, At: o.createdAt})
	return o, nil
}

// Snapshot carries the persisted state of an order back into the domain.
type Snapshot struct {
	ID                 kernel.UUID
	Number             string
	CreatorID          kernel.UUID
	Sender             Contact
	Receiver           Contact
	Address            string
	PackageType        string
	Weight             float64
	Notes              string
	Collection         Collection
	PackageImage       string
	Status             Status
	DeliveryUserID     *kernel.UUID
	ShippingFee        *kernel.Money
	DeliveryNotes      string
	ActualDeliveryDate *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
	Version            int
}

// RestoreOrder rebuilds an order from storage. Field rules are the same as NewOrder,
// the status must be canonical. No events are raised.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		number:             s.Number,
		collection:         s.Collection,
		notes:              s.Notes,
		packageImage:       s.PackageImage,
		deliveryUserID:     s.DeliveryUserID,
		shippingFee:        s.ShippingFee,
		deliveryNotes:      s.DeliveryNotes,
		actualDeliveryDate: s.ActualDeliveryDate,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		deletedAt:          s.DeletedAt,
		version:            s.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		ValidateNumber(s.Number),
		o.setCreator(s.CreatorID),
		o.setContacts(s.Sender, s.Receiver),
		o.setAddress(s.Address),
		o.setPackageType(s.PackageType),
		o.setWeight(s.Weight),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                { return o.id }
func (o *Order) Number() string                 { return o.number }
func (o *Order) CreatorID() kernel.UUID         { return o.creatorID }
func (o *Order) Sender() Contact                { return o.sender }
func (o *Order) Receiver() Contact              { return o.receiver }
func (o *Order) Address() string                { return o.address }
func (o *Order) PackageType() string            { return o.packageType }
func (o *Order) Weight() float64                { return o.weight }
func (o *Order) Notes() string                  { return o.notes }
func (o *Order) Collection() Collection         { return o.collection }
func (o *Order) PackageImage() string           { return o.packageImage }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) DeliveryUserID() *kernel.UUID   { return o.deliveryUserID }
func (o *Order) ShippingFee() *kernel.Money     { return o.shippingFee }
func (o *Order) DeliveryNotes() string          { return o.deliveryNotes }
func (o *Order) ActualDeliveryDate() *time.Time { return o.actualDeliveryDate }
func (o *Order) CreatedAt() time.Time           { return o.createdAt }
func (o *Order) UpdatedAt() time.Time           { return o.updatedAt }
func (o *Order) DeletedAt() *time.Time          { return o.deletedAt }
func (o *Order) IsDeleted() bool                { return o.deletedAt != nil }

// Version returns the concurrency token the order was loaded with.
func (o *Order) Version() int { return o.version }

// VersionPersisted advances the concurrency token after the repository wrote the order.
func (o *Order) VersionPersisted() {
	o.version++
}

// IsCreatedBy reports whether userID placed the order.
func (o *Order) IsCreatedBy(userID kernel.UUID) bool {
	return o.creatorID.IsEqual(userID)
}

// IsAssignedTo reports whether userID is the current delivery user.
func (o *Order) IsAssignedTo(userID kernel.UUID) bool {
	return o.deliveryUserID != nil && o.deliveryUserID.IsEqual(userID)
}

// Assign hands the order to a delivery user for the given fee and moves it to Submitted.
//
// This method enforces the following business rules:
//   - The delivery user ID must be valid
//   - The order must be in Pending or Submitted status
//   - Reassignment is allowed (from Submitted to Submitted)
//
// Checking that deliveryUserID belongs to a delivery-role user is the caller's job,
// since the aggregate cannot see other users.
func (o *Order) Assign(deliveryUserID kernel.UUID, fee kernel.Money, now time.Time) error {
	if err := deliveryUserID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.deliveryUserID = &deliveryUserID
	o.shippingFee = &fee
	o.changeStatus(newStatus, now)
	return nil
}

// Confirm moves a submitted order to Confirmed.
func (o *Order) Confirm(now time.Time) error {
	newStatus, err := o.status.Confirm()
	if err != nil || newStatus == o.status {
		return err
	}

	o.changeStatus(newStatus, now)
	return nil
}

// Deliver moves a confirmed order to Delivered.
// Delivering an already delivered order succeeds and changes nothing.
func (o *Order) Deliver(now time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil || newStatus == o.status {
		return err
	}

	o.markDelivered(now)
	o.changeStatus(newStatus, now)
	return nil
}

// Return moves a confirmed order to Returned. notes are mandatory.
// Returning an already returned order succeeds and keeps the stored notes;
// only an admin override rewrites them.
func (o *Order) Return(notes string, now time.Time) error {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return errs.NewValueIsRequiredError("delivery notes")
	}

	newStatus, err := o.status.Return()
	if err != nil || newStatus == o.status {
		return err
	}

	o.deliveryNotes = notes
	o.changeStatus(newStatus, now)
	return nil
}

// Cancel moves a non-terminal order to Cancelled.
// A non-empty reason replaces the delivery notes.
func (o *Order) Cancel(reason string, now time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	if reason = strings.TrimSpace(reason); reason != "" {
		o.deliveryNotes = reason
	}
	o.changeStatus(newStatus, now)
	return nil
}

// Override sets any canonical status directly, bypassing the transition table.
//
// The remaining invariants still hold: Returned needs notes, and the first
// entry into Delivered records actualDeliveryDate. Non-empty notes are stored
// for every target status.
func (o *Order) Override(status Status, notes string, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	notes = strings.TrimSpace(notes)
	if status == Returned && notes == "" {
		return errs.NewValueIsRequiredError("delivery notes")
	}

	if notes != "" {
		o.deliveryNotes = notes
	}
	if status == Delivered {
		o.markDelivered(now)
	}
	o.changeStatus(status, now)
	return nil
}

// AttachPackageImage stores a reference to the uploaded package photo.
func (o *Order) AttachPackageImage(ref string) {
	o.packageImage = ref
}

// MarkDeleted soft-deletes the order. The row is kept for audit and hidden from reads.
func (o *Order) MarkDeleted(now time.Time) error {
	if o.deletedAt != nil {
		return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("%s is already deleted", o.number))
	}

	at := now.UTC()
	o.deletedAt = &at
	o.updatedAt = at
	o.raise(DeletedEvent{OrderID: o.id, OrderNumber: o.number, At: at})
	return nil
}

// DomainEvents returns the events raised since the order was created or loaded.
func (o *Order) DomainEvents() []DomainEvent {
	return o.events
}

// ClearDomainEvents drops the recorded events once they were published.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) markDelivered(now time.Time) {
	if o.actualDeliveryDate == nil {
		at := now.UTC()
		o.actualDeliveryDate = &at
	}
}

// changeStatus writes the new status and records the change.
func (o *Order) changeStatus(to Status, now time.Time) {
	from := o.status
	o.status = to
	o.updatedAt = now.UTC()

	if from != to {
		o.raise(StatusChangedEvent{
			OrderID:        o.id,
			OrderNumber:    o.number,
			From:           from,
			To:             to,
			DeliveryUserID: o.deliveryUserID,
			At:             o.updatedAt,
		})
	}
}

func (o *Order) raise(event DomainEvent) {
	o.events = append(o.events, event)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCreator(creatorID kernel.UUID) error {
	if err := creatorID.Validate(); err != nil {
		return fmt.Errorf("creator: %w", err)
	}
	o.creatorID = creatorID
	return nil
}

func (o *Order) setContacts(sender, receiver Contact) error {
	if err := errors.Join(sender.Validate(), receiver.Validate()); err != nil {
		return err
	}
	o.sender = sender
	o.receiver = receiver
	return nil
}

func (o *Order) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

func (o *Order) setPackageType(packageType string) error {
	packageType = strings.TrimSpace(packageType)
	if packageType == "" {
		return errs.NewValueIsRequiredError("package type")
	}
	if len([]rune(packageType)) > maxPackageTypeLength {
		return errs.NewValueIsInvalidErrorWithCause(
			"package type",
			fmt.Errorf("longer than %d characters", maxPackageTypeLength),
		)
	}
	o.packageType = packageType
	return nil
}

func (o *Order) setWeight(weight float64) error {
	if math.IsNaN(weight) || weight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight is invalid", fmt.Errorf("%v is not greater than 0", weight))
	}
	if weight > maxWeight {
		return errs.NewValueIsOutOfRangeError("weight", weight, 0.01, maxWeight)
	}
	o.weight = math.Round(weight*100) / 100
	return nil
}
