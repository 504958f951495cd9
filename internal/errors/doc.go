// Package errors provides structured, actionable error messages for hotweb.
//
// Every error carries a code (e.g. "E301") that maps to a registered template
// with a category, a short message and a longer explanation. Callers decorate
// the error with detail, a suggestion or a wrapped cause:
//
//	err := errors.New("E301").
//	    WithDetail(`container "app" already holds a mounted root`).
//	    WithSuggestion("Unmount the existing handle before mounting again")
//
//	fmt.Println(err.Format())
//	// ERROR E301: Container already mounted
//	//
//	//   container "app" already holds a mounted root
//	//
//	//   Hint: Unmount the existing handle before mounting again
//
// Errors with the same code match under errors.Is, so packages expose
// registered errors as sentinels:
//
//	var ErrAlreadyMounted = errors.New("E301")
//
//	if errors.Is(err, mount.ErrAlreadyMounted) { ... }
package errors
