package constants

// LineTag is the classification of a single OCR text line.
type LineTag string

// Stable values (they appear in trace output and tests).
const (
	TagNoise   LineTag = "NOISE"
	TagPrice   LineTag = "PRICE"
	TagItem    LineTag = "ITEM"
	TagTotal   LineTag = "TOTAL"
	TagTax     LineTag = "TAX"
	TagService LineTag = "SERVICE"
)

// IsSummary reports whether the tag marks a receipt summary row (total, tax, service charge).
func (t LineTag) IsSummary() bool {
	return t == TagTotal || t == TagTax || t == TagService
}

// MapAction is the outcome of a synonym mapping request.
type MapAction string

const (
	ActionCreated       MapAction = "created"
	ActionUpdated       MapAction = "updated"
	ActionAlreadyExists MapAction = "already_exists"
)

// MatchKind records which tier surfaced a synonym match.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchPrefix    MatchKind = "prefix"
	MatchSubstring MatchKind = "substring"
	MatchFuzzy     MatchKind = "fuzzy"
)
