package service

// Broadcaster fans events out to live dashboards. Implementations must not block.
type Broadcaster interface {
	Publish(event interface{})
}

type NoopBroadcaster struct{}

func (NoopBroadcaster) Publish(interface{}) {}

// Event is the payload shape pushed over the websocket hub.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

const (
	EventStockUpdate = "stock_update"
	EventCatalog     = "catalog_update"

	ActionSaleRecorded    = "sale_recorded"
	ActionProductCreated  = "product_created"
	ActionProductUpdated  = "product_updated"
	ActionProductDeleted  = "product_deleted"
	ActionSupplierDeleted = "supplier_deleted"
)
