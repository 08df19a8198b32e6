package core

// AssetInfo holds the exchange metadata of one trading pair
type AssetInfo struct {
	BaseAsset  string
	QuoteAsset string

	MinPrice    float64
	MaxPrice    float64
	MinQuantity float64
	MaxQuantity float64
	StepSize    float64
	TickSize    float64

	QuotePrecision     int
	BaseAssetPrecision int
}

// Known reports whether the pair was listed by the exchange
func (a AssetInfo) Known() bool { return a.BaseAsset != "" }
