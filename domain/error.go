// Package domain defines error types for the inventory and sales ledger.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags every failure the catalog and ledger can report.
type ErrorKind int

const (
	KindProductNotFound ErrorKind = iota + 1
	KindDuplicateProductID
	KindInvalidProductData
	KindInsufficientStock
	KindSaleNotFound
	KindAlreadyRefunded
	KindInvalidSaleQuantity
	KindProductInUse
	KindInvalidFilterRange
)

var kindNames = map[ErrorKind]string{
	KindProductNotFound:     "ProductNotFound",
	KindDuplicateProductID:  "DuplicateProductId",
	KindInvalidProductData:  "InvalidProductData",
	KindInsufficientStock:   "InsufficientStock",
	KindSaleNotFound:        "SaleNotFound",
	KindAlreadyRefunded:     "AlreadyRefunded",
	KindInvalidSaleQuantity: "InvalidSaleQuantity",
	KindProductInUse:        "ProductInUse",
	KindInvalidFilterRange:  "InvalidFilterRange",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is implemented by every error in the taxonomy.
type Error interface {
	error
	Kind() ErrorKind
}

// KindOf reports the kind of the first taxonomy error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de Error
	if errors.As(err, &de) {
		return de.Kind(), true
	}
	return 0, false
}

// ProductNotFoundError is returned when a product with the given ID is not found
type ProductNotFoundError struct {
	ProductID string
}

// Error implements the error interface for ProductNotFoundError
func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: id=%s", e.ProductID)
}

// Is allows proper error type checking with errors.Is()
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

func (e *ProductNotFoundError) Kind() ErrorKind { return KindProductNotFound }

// InvalidProductError is returned when product validation fails
type InvalidProductError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for InvalidProductError
func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("invalid product: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidProductError) Is(target error) bool {
	_, ok := target.(*InvalidProductError)
	return ok
}

func (e *InvalidProductError) Kind() ErrorKind { return KindInvalidProductData }

// DuplicateProductError is returned when attempting to create a product with an existing ID
type DuplicateProductError struct {
	ProductID string
}

// Error implements the error interface for DuplicateProductError
func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("duplicate product: id=%s already exists", e.ProductID)
}

// Is allows proper error type checking with errors.Is()
func (e *DuplicateProductError) Is(target error) bool {
	_, ok := target.(*DuplicateProductError)
	return ok
}

func (e *DuplicateProductError) Kind() ErrorKind { return KindDuplicateProductID }

// InsufficientStockError is returned when a sale asks for more units than are on hand
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: id=%s, available=%d, requested=%d", e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

func (e *InsufficientStockError) Kind() ErrorKind { return KindInsufficientStock }

// SaleNotFoundError is returned when no sale with the given ID is in the ledger
type SaleNotFoundError struct {
	SaleID string
}

func (e *SaleNotFoundError) Error() string {
	return fmt.Sprintf("sale not found: id=%s", e.SaleID)
}

func (e *SaleNotFoundError) Is(target error) bool {
	_, ok := target.(*SaleNotFoundError)
	return ok
}

func (e *SaleNotFoundError) Kind() ErrorKind { return KindSaleNotFound }

// AlreadyRefundedError is returned when cancelling a sale that is already refunded
type AlreadyRefundedError struct {
	SaleID string
}

func (e *AlreadyRefundedError) Error() string {
	return fmt.Sprintf("sale already refunded: id=%s", e.SaleID)
}

func (e *AlreadyRefundedError) Is(target error) bool {
	_, ok := target.(*AlreadyRefundedError)
	return ok
}

func (e *AlreadyRefundedError) Kind() ErrorKind { return KindAlreadyRefunded }

// InvalidQuantityError is returned for sale and stock adjustment quantities that are not positive
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity: must be positive, value=%d", e.Quantity)
}

func (e *InvalidQuantityError) Is(target error) bool {
	_, ok := target.(*InvalidQuantityError)
	return ok
}

func (e *InvalidQuantityError) Kind() ErrorKind { return KindInvalidSaleQuantity }

// ProductInUseError is returned when removing a product that completed sales still reference
type ProductInUseError struct {
	ProductID string
	OpenSales int
}

func (e *ProductInUseError) Error() string {
	return fmt.Sprintf("product in use: id=%s is referenced by %d completed sale(s)", e.ProductID, e.OpenSales)
}

func (e *ProductInUseError) Is(target error) bool {
	_, ok := target.(*ProductInUseError)
	return ok
}

func (e *ProductInUseError) Kind() ErrorKind { return KindProductInUse }

// InvalidFilterRangeError is returned when a filter's lower bound exceeds its upper bound
type InvalidFilterRangeError struct {
	Field string
	Min   interface{}
	Max   interface{}
}

func (e *InvalidFilterRangeError) Error() string {
	return fmt.Sprintf("invalid filter range: field=%s, min=%v > max=%v", e.Field, e.Min, e.Max)
}

func (e *InvalidFilterRangeError) Is(target error) bool {
	_, ok := target.(*InvalidFilterRangeError)
	return ok
}

func (e *InvalidFilterRangeError) Kind() ErrorKind { return KindInvalidFilterRange }

// Helper functions for creating errors with context

// NewProductNotFoundError creates a new ProductNotFoundError
func NewProductNotFoundError(productID string) error {
	return &ProductNotFoundError{ProductID: productID}
}

// NewInvalidProductError creates a new InvalidProductError
func NewInvalidProductError(field, reason string, value interface{}) error {
	return &InvalidProductError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewDuplicateProductError creates a new DuplicateProductError
func NewDuplicateProductError(productID string) error {
	return &DuplicateProductError{ProductID: productID}
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(productID string, available, requested int) error {
	return &InsufficientStockError{ProductID: productID, Available: available, Requested: requested}
}

// NewSaleNotFoundError creates a new SaleNotFoundError
func NewSaleNotFoundError(saleID string) error {
	return &SaleNotFoundError{SaleID: saleID}
}

// NewAlreadyRefundedError creates a new AlreadyRefundedError
func NewAlreadyRefundedError(saleID string) error {
	return &AlreadyRefundedError{SaleID: saleID}
}

// NewInvalidQuantityError creates a new InvalidQuantityError
func NewInvalidQuantityError(quantity int) error {
	return &InvalidQuantityError{Quantity: quantity}
}

// NewProductInUseError creates a new ProductInUseError
func NewProductInUseError(productID string, openSales int) error {
	return &ProductInUseError{ProductID: productID, OpenSales: openSales}
}

// NewInvalidFilterRangeError creates a new InvalidFilterRangeError
func NewInvalidFilterRangeError(field string, min, max interface{}) error {
	return &InvalidFilterRangeError{Field: field, Min: min, Max: max}
}

// Type assertion helpers for use with errors.As()

// IsProductNotFoundError checks if an error is a ProductNotFoundError
func IsProductNotFoundError(err error) bool {
	var pnf *ProductNotFoundError
	return errors.As(err, &pnf)
}

// IsInvalidProductError checks if an error is an InvalidProductError
func IsInvalidProductError(err error) bool {
	var ipe *InvalidProductError
	return errors.As(err, &ipe)
}

// IsDuplicateProductError checks if an error is a DuplicateProductError
func IsDuplicateProductError(err error) bool {
	var dpe *DuplicateProductError
	return errors.As(err, &dpe)
}

// IsInsufficientStockError checks if an error is an InsufficientStockError
func IsInsufficientStockError(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// IsSaleNotFoundError checks if an error is a SaleNotFoundError
func IsSaleNotFoundError(err error) bool {
	var snf *SaleNotFoundError
	return errors.As(err, &snf)
}

// IsAlreadyRefundedError checks if an error is an AlreadyRefundedError
func IsAlreadyRefundedError(err error) bool {
	var are *AlreadyRefundedError
	return errors.As(err, &are)
}

// IsInvalidQuantityError checks if an error is an InvalidQuantityError
func IsInvalidQuantityError(err error) bool {
	var iqe *InvalidQuantityError
	return errors.As(err, &iqe)
}

// IsProductInUseError checks if an error is a ProductInUseError
func IsProductInUseError(err error) bool {
	var piu *ProductInUseError
	return errors.As(err, &piu)
}

// IsInvalidFilterRangeError checks if an error is an InvalidFilterRangeError
func IsInvalidFilterRangeError(err error) bool {
	var ifr *InvalidFilterRangeError
	return errors.As(err, &ifr)
}
