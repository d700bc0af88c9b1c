package enum

// ── Group A: State machines ──

// OrderStatus is the lifecycle position of an order. Values are the
// customer-facing labels and are persisted verbatim.
type OrderStatus string

const (
	OrderStatusReceived       OrderStatus = "Recebido"
	OrderStatusPreparing      OrderStatus = "Em Preparo"
	OrderStatusReadyForPickup OrderStatus = "Pronto para Retirada"
	OrderStatusOutForDelivery OrderStatus = "Saiu para Entrega"
	OrderStatusDelivered      OrderStatus = "Entregue"
	OrderStatusCompleted      OrderStatus = "Concluído"
)

// OrderStatuses lists every known status.
var OrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusPreparing,
	OrderStatusReadyForPickup,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCompleted,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderEvent is an operator action that moves an order forward.
type OrderEvent string

const (
	EventStartPreparing  OrderEvent = "start_preparing"
	EventMarkReady       OrderEvent = "mark_ready"
	EventStartDelivery   OrderEvent = "start_delivery"
	EventConfirmDelivery OrderEvent = "confirm_delivery"
	EventComplete        OrderEvent = "complete"
)

func (e OrderEvent) Valid() bool {
	switch e {
	case EventStartPreparing, EventMarkReady, EventStartDelivery,
		EventConfirmDelivery, EventComplete:
		return true
	}
	return false
}

// ── Group B: Fulfillment and payment ──

type OrderType string

const (
	OrderTypePickup   OrderType = "Retirada"
	OrderTypeDelivery OrderType = "Entrega"
)

func (t OrderType) Valid() bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

type PaymentMethod string

const (
	PaymentMethodPix          PaymentMethod = "Pix"
	PaymentMethodCardOnline   PaymentMethod = "Cartão (Online)"
	PaymentMethodCardDelivery PaymentMethod = "Cartão (Entrega)"
	PaymentMethodCash         PaymentMethod = "Dinheiro"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodPix, PaymentMethodCardOnline,
		PaymentMethodCardDelivery, PaymentMethodCash:
		return true
	}
	return false
}

// Online reports whether the method needs a payment step before the
// order is materialized.
func (m PaymentMethod) Online() bool {
	return m == PaymentMethodPix || m == PaymentMethodCardOnline
}

// ── Group C: Catalog labels ──

type Category string

const (
	CategoryChicken  Category = "Frango"
	CategorySide     Category = "Acompanhamento"
	CategoryBeverage Category = "Bebida"
)

// PreferredCategoryOrder is the menu display order; unknown categories
// sort after these alphabetically.
var PreferredCategoryOrder = []Category{CategoryChicken, CategorySide, CategoryBeverage}

func (c Category) Valid() bool {
	switch c {
	case CategoryChicken, CategorySide, CategoryBeverage:
		return true
	}
	return false
}

// CatalogKind discriminates admin catalog saves.
type CatalogKind string

const (
	CatalogKindProduct CatalogKind = "product"
	CatalogKindCombo   CatalogKind = "combo"
)

const (
	RoleAdmin = "ADMIN"
)
