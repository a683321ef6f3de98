package storage

import "errors"

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStatusConflict is returned when a conditional status update finds the record
// in a different status than the caller observed.
var ErrStatusConflict = errors.New("record status changed concurrently")

// ErrInstrumentInUse is returned when deleting a bank account that transactions still reference.
var ErrInstrumentInUse = errors.New("instrument is referenced by transactions")

// ErrDefaultInstrument is returned when deleting the user's default payment method
// or deactivating the primary bank account.
var ErrDefaultInstrument = errors.New("instrument is the user's default")

// ErrInstrumentInactive is returned when an inactive instrument is made default or primary.
var ErrInstrumentInactive = errors.New("instrument is inactive")

// ErrDuplicate is returned when a record with the same key already exists.
var ErrDuplicate = errors.New("record already exists")
