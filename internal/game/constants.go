package game

// Name rules
const (
	MinNameLength = 2
	MaxNameLength = 32
)

// MaxReferenceLength bounds a payment reference
const MaxReferenceLength = 128

// User-facing result messages
const (
	MsgCreated          = "%s enters the realm"
	MsgActivityStarted  = "Started %s x%d"
	MsgActivityStopped  = "Stopped %s"
	MsgCombatStarted    = "Fighting %s"
	MsgCombatFled       = "Fled from %s"
	MsgDungeonStarted   = "Entered %s"
	MsgDungeonAbandoned = "Abandoned %s"
	MsgEquipped         = "Equipped %s"
	MsgUnequipped       = "Unequipped %s"
	MsgClaimsCollected  = "Collected %d of %d claims"
	MsgPaymentCredited  = "Payment of %d silver received"
	MsgPaymentQueued    = "Payment of %d silver is waiting in claims"
	MsgItemsSent        = "Sent %d %s to %s"
	MsgItemsReceived    = "%d %s arrived from %s"
)

// Log Messages
const (
	LogMsgCharacterCreated = "Character created"
	LogMsgResumed          = "Character resumed"
	LogMsgDisconnected     = "Character disconnected"
	LogMsgDisconnectFlush  = "Failed to flush on disconnect"
	LogMsgStepDuringOp     = "Step failed while bringing character current"
	LogMsgPaymentApplied   = "Payment applied"
	LogMsgPaymentDuplicate = "Duplicate payment ignored"
	LogMsgDeliveryRefund   = "Refunding undeliverable items"
)
