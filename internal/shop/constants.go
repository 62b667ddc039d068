package shop

// SourcePurchase tags currency change events produced by upgrade purchases.
// Purchase deltas are negative; the award paths never emit negatives.
const SourcePurchase = "purchase"

// Log message constants
const (
	LogMsgPurchaseCalled   = "PurchaseUpgrade called"
	LogMsgUpgradePurchased = "Upgrade purchased"
	LogMsgCatalogCalled    = "GetCatalog called"
	LogMsgUnhandledEffect  = "effect type has no handler, applying as no-op"
)
