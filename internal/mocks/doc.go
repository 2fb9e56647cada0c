// Package mocks provides centralized mock implementations for testing.
//
// The store mocks keep their data in memory so tests can drive the real
// services through them; every method can also be overridden with a
// function field:
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("database down")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
