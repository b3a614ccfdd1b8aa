package order_test

import (
	"testing"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func contact(t *testing.T, role, name, phone string) order.Contact {
	t.Helper()
	p, err := kernel.NewPhone(phone)
	require.NoError(t, err)
	c, err := order.NewContact(role, name, p)
	require.NoError(t, err)
	return c
}

func money(t *testing.T, raw string) kernel.Money {
	t.Helper()
	m, err := kernel.ParseMoney(raw)
	require.NoError(t, err)
	return m
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		contact(t, "sender", "Mona", "01000000001"),
		contact(t, "receiver", "Ali", "01000000002"),
		"12 Nile St",
		"documents",
		1.5,
		"fragile",
		order.NoCollection(),
		now,
	)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func newConfirmedOrder(t *testing.T, deliveryUserID kernel.UUID) *order.Order {
	t.Helper()
	o := newPendingOrder(t)
	require.NoError(t, o.Assign(deliveryUserID, money(t, "10"), now))
	require.NoError(t, o.Confirm(now))
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	id := kernel.NewUUID()
	creator := kernel.NewUUID()
	sender := contact(t, "sender", "Mona", "01000000001")
	receiver := contact(t, "receiver", "Ali", "01000000002")

	t.Run("should create pending collection order", func(t *testing.T) {
		price := money(t, "50")
		collection, err := order.NewCollection(true, &price)
		require.NoError(t, err)

		o, err := order.NewOrder(id, creator, sender, receiver, " 12 Nile St ", "documents", 1.234, "", collection, now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.IsCreatedBy(creator))
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "12 Nile St", o.Address())
		assert.InDelta(t, 1.23, o.Weight(), 0.0001)
		assert.True(t, o.Collection().IsCollection())
		assert.True(t, o.Collection().Price().IsEqual(price))
		assert.Nil(t, o.DeliveryUserID())
		assert.Nil(t, o.ShippingFee())
		assert.Nil(t, o.ActualDeliveryDate())
		assert.Equal(t, 0, o.Version())
		require.NoError(t, order.ValidateNumber(o.Number()))

		require.Len(t, o.DomainEvents(), 1)
		created, ok := o.DomainEvents()[0].(order.CreatedEvent)
		require.True(t, ok)
		assert.Equal(t, o.Number(), created.OrderNumber)
		assert.Equal(t, "order.created", created.EventName())
	})

	t.Run("should join every validation failure", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, order.Contact{}, receiver, "", "", 0, "", order.NoCollection(), now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "creator")
		assert.Contains(t, err.Error(), "address")
		assert.Contains(t, err.Error(), "package type")
		assert.Contains(t, err.Error(), "weight is invalid")
	})

	t.Run("should reject negative and oversized weight", func(t *testing.T) {
		_, err := order.NewOrder(id, creator, sender, receiver, "a", "b", -1, "", order.NoCollection(), now)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.NewOrder(id, creator, sender, receiver, "a", "b", 1_000_000, "", order.NoCollection(), now)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRestoreOrder(t *testing.T) {
	deliveryUser := kernel.NewUUID()
	fee := money(t, "10")
	delivered := now.Add(time.Hour)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:                 kernel.NewUUID(),
		Number:             "ORD-M7Q0ABCD-1A2B3C",
		CreatorID:          kernel.NewUUID(),
		Sender:             contact(t, "sender", "Mona", "01000000001"),
		Receiver:           contact(t, "receiver", "Ali", "01000000002"),
		Address:            "12 Nile St",
		PackageType:        "box",
		Weight:             2,
		Collection:         order.NoCollection(),
		Status:             order.Delivered,
		DeliveryUserID:     &deliveryUser,
		ShippingFee:        &fee,
		ActualDeliveryDate: &delivered,
		CreatedAt:          now,
		UpdatedAt:          delivered,
		Version:            4,
	})

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, o.Status())
	assert.True(t, o.IsAssignedTo(deliveryUser))
	assert.Equal(t, 4, o.Version())
	assert.Equal(t, delivered, *o.ActualDeliveryDate())
	assert.Empty(t, o.DomainEvents())

	_, err = order.RestoreOrder(order.Snapshot{Status: order.Unknown})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status is invalid")
	assert.Contains(t, err.Error(), "order number")
}

func TestOrder_Validate(t *testing.T) {
	var zero order.Order
	assert.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	assert.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_Assign(t *testing.T) {
	t.Run("should assign pending order", func(t *testing.T) {
		o := newPendingOrder(t)
		deliveryUser := kernel.NewUUID()

		err := o.Assign(deliveryUser, money(t, "10"), now.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Submitted, o.Status())
		assert.True(t, o.IsAssignedTo(deliveryUser))
		assert.Equal(t, int64(1000), o.ShippingFee().Cents())

		require.Len(t, o.DomainEvents(), 1)
		changed := o.DomainEvents()[0].(order.StatusChangedEvent)
		assert.Equal(t, order.Pending, changed.From)
		assert.Equal(t, order.Submitted, changed.To)
	})

	t.Run("should reassign submitted order without a status event", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), money(t, "10"), now))
		o.ClearDomainEvents()
		other := kernel.NewUUID()

		require.NoError(t, o.Assign(other, money(t, "0"), now))

		assert.True(t, o.IsAssignedTo(other))
		assert.Equal(t, int64(0), o.ShippingFee().Cents())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should leave confirmed order untouched", func(t *testing.T) {
		first := kernel.NewUUID()
		o := newConfirmedOrder(t, first)

		err := o.Assign(kernel.NewUUID(), money(t, "99"), now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.True(t, o.IsAssignedTo(first))
		assert.Equal(t, int64(1000), o.ShippingFee().Cents())
	})

	t.Run("should reject invalid delivery user id", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Assign(kernel.UUID{}, money(t, "10"), now)

		require.Error(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.ShippingFee())
	})
}

func TestOrder_Deliver(t *testing.T) {
	t.Run("should set delivery date once", func(t *testing.T) {
		o := newConfirmedOrder(t, kernel.NewUUID())
		first := now.Add(time.Hour)

		require.NoError(t, o.Deliver(first))
		require.NoError(t, o.Deliver(first.Add(time.Hour)))

		assert.Equal(t, order.Delivered, o.Status())
		require.NotNil(t, o.ActualDeliveryDate())
		assert.Equal(t, first, *o.ActualDeliveryDate())
		assert.Equal(t, first, o.UpdatedAt())
		assert.Len(t, o.DomainEvents(), 1)
	})

	t.Run("should not deliver pending order", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Deliver(now)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.ActualDeliveryDate())
	})
}

func TestOrder_Return(t *testing.T) {
	t.Run("should require notes", func(t *testing.T) {
		o := newConfirmedOrder(t, kernel.NewUUID())

		err := o.Return("   ", now)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Empty(t, o.DeliveryNotes())
	})

	t.Run("should store notes", func(t *testing.T) {
		o := newConfirmedOrder(t, kernel.NewUUID())

		require.NoError(t, o.Return("receiver refused", now))

		assert.Equal(t, order.Returned, o.Status())
		assert.Equal(t, "receiver refused", o.DeliveryNotes())
	})

	t.Run("should keep notes when returned again", func(t *testing.T) {
		o := newConfirmedOrder(t, kernel.NewUUID())
		require.NoError(t, o.Return("receiver refused", now))

		require.NoError(t, o.Return("edited later", now.Add(time.Hour)))

		assert.Equal(t, order.Returned, o.Status())
		assert.Equal(t, "receiver refused", o.DeliveryNotes())
		assert.Equal(t, now, o.UpdatedAt())
	})

	t.Run("should not return delivered order", func(t *testing.T) {
		o := newConfirmedOrder(t, kernel.NewUUID())
		require.NoError(t, o.Deliver(now))

		err := o.Return("late", now)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Delivered, o.Status())
		assert.Empty(t, o.DeliveryNotes())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should keep reason in delivery notes", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Cancel("changed my mind", now))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "changed my mind", o.DeliveryNotes())
	})

	t.Run("should accept missing reason", func(t *testing.T) {
		o := newConfirmedOrder(t, kernel.NewUUID())

		require.NoError(t, o.Cancel("", now))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Empty(t, o.DeliveryNotes())
	})

	t.Run("should reject terminal orders", func(t *testing.T) {
		o := newConfirmedOrder(t, kernel.NewUUID())
		require.NoError(t, o.Return("refused", now))

		err := o.Cancel("again", now)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Returned, o.Status())
		assert.Equal(t, "refused", o.DeliveryNotes())
	})
}

func TestOrder_Override(t *testing.T) {
	t.Run("should move terminal order anywhere", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Cancel("", now))

		require.NoError(t, o.Override(order.Pending, "", now))

		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should set delivery date on first delivery", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Override(order.Delivered, "", now))
		require.NoError(t, o.Override(order.Delivered, "", now.Add(time.Hour)))

		assert.Equal(t, now, *o.ActualDeliveryDate())
	})

	t.Run("should require notes for returned", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Override(order.Returned, "", now)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Override(order.Unknown, "note", now)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Empty(t, o.DeliveryNotes())
	})
}

func TestOrder_MarkDeleted(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.MarkDeleted(now))

	assert.True(t, o.IsDeleted())
	require.Len(t, o.DomainEvents(), 1)
	assert.Equal(t, "order.deleted", o.DomainEvents()[0].EventName())

	assert.ErrorIs(t, o.MarkDeleted(now), errs.ErrValueIsInvalid)
}

func TestOrder_HappyPath(t *testing.T) {
	price := money(t, "50")
	collection, err := order.NewCollection(true, &price)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
		contact(t, "sender", "Mona", "01000000001"),
		contact(t, "receiver", "Ali", "01000000002"),
		"12 Nile St", "box", 3, "", collection, now)
	require.NoError(t, err)
	d := kernel.NewUUID()

	require.NoError(t, o.Assign(d, money(t, "10"), now))
	require.NoError(t, o.Confirm(now))
	require.NoError(t, o.Deliver(now.Add(time.Hour)))

	assert.Equal(t, order.Delivered, o.Status())
	assert.True(t, o.IsAssignedTo(d))
	assert.Equal(t, int64(1000), o.ShippingFee().Cents())
	assert.Equal(t, now.Add(time.Hour), *o.ActualDeliveryDate())

	names := make([]string, 0, len(o.DomainEvents()))
	for _, e := range o.DomainEvents() {
		names = append(names, e.EventName())
	}
	assert.Equal(t, []string{"order.created", "order.status_changed", "order.status_changed", "order.status_changed"}, names)
}
