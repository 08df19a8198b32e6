package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
)

// Binance is the spot market feeder
type Binance struct {
	client     *binance.Client
	assetsInfo map[string]core.AssetInfo
	log        logger.Logger
}

// BinanceOption configures the Binance feeder
type BinanceOption func(*Binance)

// WithCredentials sets the API credentials
func WithCredentials(key, secret string) BinanceOption {
	return func(b *Binance) {
		b.client = binance.NewClient(key, secret)
	}
}

// WithTestNet enables the Binance testnet
func WithTestNet() BinanceOption {
	return func(_ *Binance) {
		binance.UseTestnet = true
	}
}

// NewBinance creates the spot feeder, pings the exchange and loads the
// listed symbols with their precision limits.
func NewBinance(ctx context.Context, log logger.Logger, options ...BinanceOption) (*Binance, error) {
	b := &Binance{
		client:     binance.NewClient("", ""),
		assetsInfo: make(map[string]core.AssetInfo),
		log:        log,
	}

	for _, option := range options {
		option(b)
	}

	if err := b.client.NewPingService().Do(ctx); err != nil {
		return nil, fmt.Errorf("binance ping fail: %w", err)
	}

	exchangeInfo, err := b.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange info: %w", err)
	}

	for _, info := range exchangeInfo.Symbols {
		assetInfo := core.AssetInfo{
			BaseAsset:          info.BaseAsset,
			QuoteAsset:         info.QuoteAsset,
			BaseAssetPrecision: info.BaseAssetPrecision,
			QuotePrecision:     info.QuotePrecision,
		}

		for _, filter := range info.Filters {
			if typ, ok := filter["filterType"]; ok {
				if typ == string(binance.SymbolFilterTypeLotSize) {
					assetInfo.MinQuantity, _ = strconv.ParseFloat(filter["minQty"].(string), 64)
					assetInfo.MaxQuantity, _ = strconv.ParseFloat(filter["maxQty"].(string), 64)
					assetInfo.StepSize, _ = strconv.ParseFloat(filter["stepSize"].(string), 64)
				}

				if typ == string(binance.SymbolFilterTypePriceFilter) {
					assetInfo.MinPrice, _ = strconv.ParseFloat(filter["minPrice"].(string), 64)
					assetInfo.MaxPrice, _ = strconv.ParseFloat(filter["maxPrice"].(string), 64)
					assetInfo.TickSize, _ = strconv.ParseFloat(filter["tickSize"].(string), 64)
				}
			}
		}

		b.assetsInfo[info.Symbol] = assetInfo
	}

	log.Info("Using Binance spot market data")
	return b, nil
}

// AssetsInfo returns the exchange metadata of a pair
func (b *Binance) AssetsInfo(pair string) core.AssetInfo {
	return b.assetsInfo[pair]
}

// LastQuote gets the latest close price for a pair
func (b *Binance) LastQuote(ctx context.Context, pair string) (float64, error) {
	candles, err := b.CandlesByLimit(ctx, pair, "1m", 1)
	if err != nil || len(candles) < 1 {
		return 0, err
	}
	return candles[0].Close, nil
}

// CandlesByLimit gets the last limit complete candles for a pair
func (b *Binance) CandlesByLimit(ctx context.Context, pair, period string, limit int) ([]core.Candle, error) {
	data, err := b.client.NewKlinesService().
		Symbol(pair).
		Interval(period).
		Limit(limit + 1). // +1 to discard the last incomplete candle
		Do(ctx)
	if err != nil {
		return nil, err
	}

	candles := make([]core.Candle, 0, len(data))
	for i, d := range data {
		// the newest kline is still forming
		if i == len(data)-1 {
			break
		}
		candles = append(candles, convertKlineToCandle(pair, *d))
	}

	return candles, nil
}

// CandlesByPeriod gets candles for a pair within a time range
func (b *Binance) CandlesByPeriod(ctx context.Context, pair, period string,
	start, end time.Time) ([]core.Candle, error) {

	data, err := b.client.NewKlinesService().
		Symbol(pair).
		Interval(period).
		StartTime(start.UnixNano() / int64(time.Millisecond)).
		EndTime(end.UnixNano() / int64(time.Millisecond)).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	candles := make([]core.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, convertKlineToCandle(pair, *d))
	}

	return candles, nil
}

func convertKlineToCandle(pair string, k binance.Kline) core.Candle {
	t := time.Unix(0, k.OpenTime*int64(time.Millisecond))
	candle := core.Candle{
		Pair:      pair,
		Time:      t,
		UpdatedAt: t,
		Metadata:  make(map[string]float64),
		Complete:  true,
	}

	candle.Open, _ = strconv.ParseFloat(k.Open, 64)
	candle.Close, _ = strconv.ParseFloat(k.Close, 64)
	candle.High, _ = strconv.ParseFloat(k.High, 64)
	candle.Low, _ = strconv.ParseFloat(k.Low, 64)
	candle.Volume, _ = strconv.ParseFloat(k.Volume, 64)

	return candle
}

