package tx

import (
	"errors"
	"fmt"

	"github.com/yflink/linkswap/internal/core/types"
)

// Common errors
var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrMissingRequiredField   = errors.New("missing required field")
)

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate checks if the transaction is well formed. Returning an
	// error built with ValidationError reports the precise tem code.
	Validate() error
}

// Appliable is implemented by transaction types that can apply
// themselves to ledger state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Common contains fields common to all transaction types
type Common struct {
	// Account is the caller the transaction acts on behalf of
	Account types.Address `json:"account"`

	// TransactionType names the transaction type
	TransactionType string `json:"transaction_type"`
}

// Validate validates the common fields
func (c *Common) Validate() error {
	if c.Account.IsZero() {
		return ValidationError(TemZERO_ADDRESS, "account is required")
	}
	if c.TransactionType == "" {
		return errors.New("transaction type is required")
	}
	return nil
}

// BaseTx provides a base implementation for transactions
type BaseTx struct {
	Common
	txType Type
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transaction fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// NewBaseTx creates a new base transaction
func NewBaseTx(txType Type, account types.Address) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}

// validationError carries a tem result code through the error return of
// Transaction.Validate so the engine can report it precisely.
type validationError struct {
	code Result
	msg  string
}

func (e *validationError) Error() string {
	if e.msg == "" {
		return e.code.String()
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// ValidationError builds a Validate error that maps to the given tem code.
func ValidationError(code Result, msg string) error {
	return &validationError{code: code, msg: msg}
}

// ResultFromValidationError extracts the tem code from a Validate error,
// defaulting to temINVALID for plain errors.
func ResultFromValidationError(err error) Result {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.code
	}
	return TemINVALID
}
