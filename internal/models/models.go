// Package models provides domain models for the research dashboard.
package models

import (
	"time"
)

// Interval represents a price-bar granularity.
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// Range represents a trailing price-history window.
type Range string

const (
	RangeOneYear    Range = "1y"
	RangeThreeYears Range = "3y"
	RangeFiveYears  Range = "5y"
	RangeMax        Range = "max"
)

// PriceBar represents OHLCV data for one bar.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// DividendEvent represents a single dated dividend payment per share.
type DividendEvent struct {
	Date   time.Time
	Amount float64
}

// CompanyProfile holds the descriptive metadata shown above the charts.
// Every field is optional; an absent profile renders as blanks.
type CompanyProfile struct {
	Symbol    string
	ShortName string
	Website   string
	Summary   string
	Sector    string
	Industry  string
}

// StatementKind identifies one of the three quarterly statements.
type StatementKind string

const (
	StatementIncome   StatementKind = "income"
	StatementBalance  StatementKind = "balance-sheet"
	StatementCashflow StatementKind = "cashflow"
)
