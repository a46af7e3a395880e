package core

import (
	"errors"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

const (
	CategoryFood      Category = "food"
	CategoryClothing  Category = "clothing"
	CategoryTransport Category = "transport"
	CategoryOther     Category = "other"
)

const (
	MethodCash Method = "cash"
	MethodPix  Method = "pix"
	MethodCard Method = "card"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultUserName is the display name used until the user picks one.
const DefaultUserName = "Usuário"

type (
	// Kind is the flow direction of a transaction, income or expense.
	Kind string

	// Category is the expense sub-category. It is meaningful only when
	// Kind is expense and must be empty otherwise.
	Category string

	// Method is the payment method label.
	Method string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. JSON field names follow the
	// stored blob layout (see storage).
	Transaction struct {
		ID       int64    `json:"id"`
		Kind     Kind     `json:"type"`
		Amount   Money    `json:"value"`
		Date     Date     `json:"date"`
		Method   Method   `json:"paymentMethod"`
		Category Category `json:"category,omitempty"`
	}

	// Settings holds per-user presentation preferences.
	Settings struct {
		Theme    string `json:"theme"`
		UserName string `json:"userName"`
	}

	// Ledger is the full data set for one user: every transaction in
	// insertion order plus settings. Display order is always derived by
	// sorting on date, never by slice position.
	Ledger struct {
		Transactions []Transaction `json:"transactions"`
		Settings     Settings      `json:"settings"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingDate     = errors.New("missing date")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidMethod   = errors.New("invalid payment method")
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryClothing, CategoryTransport, CategoryOther:
		return true
	}
	return false
}

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodPix, MethodCard:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day (UTC, midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date, truncated to midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// Equal compares two dates by calendar day only.
func (d Date) Equal(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month() && d.Day() == other.Day()
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a draft against the validation contract: amount and
// date must be present, the kind must be known, and the category must
// come from the closed set exactly when the kind is expense.
func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Kind == KindExpense && !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if t.Method != "" && !t.Method.Valid() {
		return ErrInvalidMethod
	}
	return nil
}

// Normalized returns a copy with the category↔kind invariant enforced:
// income transactions carry no category, whatever the caller supplied.
// An empty payment method falls back to cash.
func (t Transaction) Normalized() Transaction {
	if t.Kind == KindIncome {
		t.Category = ""
	}
	if t.Method == "" {
		t.Method = MethodCash
	}
	return t
}

// Normalized returns settings with unknown values replaced by defaults.
func (s Settings) Normalized() Settings {
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
	if s.UserName == "" {
		s.UserName = DefaultUserName
	}
	return s
}

// Clone returns a deep copy of the ledger. Callers receive snapshots; the
// owning store keeps the only mutable instance.
func (l Ledger) Clone() Ledger {
	out := Ledger{Settings: l.Settings}
	if len(l.Transactions) > 0 {
		out.Transactions = make([]Transaction, len(l.Transactions))
		copy(out.Transactions, l.Transactions)
	}
	return out
}

// SeedLedger is the ledger installed on first run or whenever the stored
// blob cannot be read back.
func SeedLedger() Ledger {
	return Ledger{
		Transactions: []Transaction{
			{ID: 1, Kind: KindIncome, Amount: Money{Cents: 150000}, Date: NewDate(2025, 10, 1), Method: MethodPix},
			{ID: 2, Kind: KindExpense, Amount: Money{Cents: 5000}, Date: NewDate(2025, 10, 2), Method: MethodCard, Category: CategoryFood},
			{ID: 3, Kind: KindExpense, Amount: Money{Cents: 2500}, Date: NewDate(2025, 10, 3), Method: MethodCash, Category: CategoryTransport},
			{ID: 4, Kind: KindIncome, Amount: Money{Cents: 20000}, Date: NewDate(2025, 10, 5), Method: MethodCash},
		},
		Settings: Settings{Theme: ThemeLight, UserName: DefaultUserName},
	}
}
