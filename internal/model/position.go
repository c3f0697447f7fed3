package model

import (
	"regexp"
	"time"
)

// AssetType classifies a tracked security code.
type AssetType string

const (
	// AssetTypeEquity is an exchange-listed stock (code carries an exchange prefix, e.g. "sh600519").
	AssetTypeEquity AssetType = "equity"

	// AssetTypeFund is an open fund identified by a bare 6-digit code (e.g. "161725").
	AssetTypeFund AssetType = "fund"
)

// fundCodePattern matches bare 6-digit numeric codes. Anything else is an equity code.
var fundCodePattern = regexp.MustCompile(`^\d{6}$`)

// ClassifyCode derives the asset type from the shape of a security code.
//
// This is the single classification rule for the whole application: fetch
// routing, refresh-window selection and display all call this function so a
// code can never be classified two different ways.
func ClassifyCode(code string) AssetType {
	if fundCodePattern.MatchString(code) {
		return AssetTypeFund
	}
	return AssetTypeEquity
}

// TypeFilter restricts a refresh cycle to one asset class.
type TypeFilter string

const (
	TypeFilterAll    TypeFilter = "all"
	TypeFilterEquity TypeFilter = "equity"
	TypeFilterFund   TypeFilter = "fund"
)

// Matches reports whether the filter selects the given asset type.
func (f TypeFilter) Matches(t AssetType) bool {
	switch f {
	case TypeFilterEquity:
		return t == AssetTypeEquity
	case TypeFilterFund:
		return t == AssetTypeFund
	default:
		return true
	}
}

// Position represents a user's recorded holding of one security.
// Positions are unique by Code; saving an existing code overwrites the
// name, cost basis and unit count while preserving CreatedAt.
type Position struct {
	ID        string
	Code      string
	Name      string
	CostPrice float64 // cost basis per unit
	Shares    float64 // unit count
	CreatedAt time.Time
	UpdatedAt time.Time // bumped on write and on read-select
}

// AssetType returns the derived classification of the position's code.
func (p Position) AssetType() AssetType {
	return ClassifyCode(p.Code)
}
