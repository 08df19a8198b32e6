// Package backfill exports historical candle data to CSV, mostly for
// tuning the analysis components offline.
package backfill

import (
	"context"
	"encoding/csv"
	"os"
	"time"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/exchange"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/xhit/go-str2duration/v2"
)

const batchSize = 500

var csvHeaders = []string{"time", "open", "close", "low", "high", "volume"}

// Downloader fetches historical candles and writes them to CSV
type Downloader struct {
	feeder exchange.Feeder
	log    logger.Logger
}

// NewDownloader creates a downloader over the given feeder
func NewDownloader(feeder exchange.Feeder, log logger.Logger) Downloader {
	return Downloader{feeder: feeder, log: log}
}

// Parameters defines the time range for data download
type Parameters struct {
	Start time.Time
	End   time.Time
}

// Option configures download parameters
type Option func(*Parameters)

// WithInterval sets specific start and end times for the download
func WithInterval(start, end time.Time) Option {
	return func(parameters *Parameters) {
		parameters.Start = start
		parameters.End = end
	}
}

// WithDays sets the download period to a number of days back from now
func WithDays(days int) Option {
	return func(parameters *Parameters) {
		parameters.Start = time.Now().AddDate(0, 0, -days)
		parameters.End = time.Now()
	}
}

// Download fetches candle data and saves it to a CSV file. The default
// range is the last month.
func (d Downloader) Download(ctx context.Context, pair, timeframe, outputPath string, options ...Option) error {
	recordFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer recordFile.Close()

	now := time.Now()
	parameters := &Parameters{
		Start: now.AddDate(0, -1, 0),
		End:   now,
	}
	for _, option := range options {
		option(parameters)
	}
	normalizeTimeParameters(parameters)

	interval, err := str2duration.ParseDuration(timeframe)
	if err != nil {
		return err
	}
	candleCount := int(parameters.End.Sub(parameters.Start)/interval) + 1

	d.log.Infof("Downloading %d candles of %s for %s", candleCount, timeframe, pair)

	writer := csv.NewWriter(recordFile)
	precision := d.feeder.AssetsInfo(pair).QuotePrecision
	bar := progressbar.Default(int64(candleCount))

	if err := writer.Write(csvHeaders); err != nil {
		return err
	}

	missing := 0
	for batchStart := parameters.Start; batchStart.Before(parameters.End); batchStart = batchStart.Add(interval * batchSize) {
		batchEnd := batchStart.Add(interval*batchSize - time.Second)
		isLastBatch := false
		if !batchEnd.Before(parameters.End) {
			batchEnd = parameters.End
			isLastBatch = true
		}

		candles, err := d.feeder.CandlesByPeriod(ctx, pair, timeframe, batchStart, batchEnd)
		if err != nil {
			return err
		}

		for _, candle := range candles {
			if err := writer.Write(candle.ToSlice(precision)); err != nil {
				return err
			}
		}

		if !isLastBatch && len(candles) < batchSize {
			missing += batchSize - len(candles)
		}

		if err := bar.Add(len(candles)); err != nil {
			d.log.Warnf("Failed to update progress bar: %s", err.Error())
		}
	}

	if err := bar.Close(); err != nil {
		d.log.Warnf("Failed to close progress bar: %s", err.Error())
	}

	if missing > 0 {
		d.log.Warnf("%d missing candles", missing)
	}

	writer.Flush()
	d.log.Info("Done!")
	return writer.Error()
}

// normalizeTimeParameters aligns the range to day boundaries and keeps
// the end out of the future.
func normalizeTimeParameters(parameters *Parameters) {
	parameters.Start = time.Date(
		parameters.Start.Year(),
		parameters.Start.Month(),
		parameters.Start.Day(),
		0, 0, 0, 0, time.UTC,
	)

	now := time.Now()
	if now.Sub(parameters.End) > 0 {
		parameters.End = time.Date(
			parameters.End.Year(),
			parameters.End.Month(),
			parameters.End.Day(),
			0, 0, 0, 0, time.UTC,
		)
	} else {
		parameters.End = now
	}
}

// LoadCSV reads a candle file previously produced by Download
func LoadCSV(path, pair string) ([]core.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	candles := make([]core.Candle, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		candle, err := core.CandleFromCSVRow(pair, row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	return candles, nil
}
