// Package errs provides standardized error types for the canister transfer engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the domain model, the use cases and the adapters.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is invalid
//   - ValueIsOutOfRangeError: a numeric value falls outside its bounds
//   - ObjectNotFoundError: an object cannot be found
//   - VersionIsInvalidError: an optimistic version check failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works
//
// Example:
//
//	if err := repo.Get(ctx, id); errors.Is(err, errs.ErrObjectNotFound) {
//	    return ErrTransferNotFound
//	}
package errs
