// Package mocks provides centralized mock implementations for testing.
//
// The store mocks keep their data in memory and behave like the real
// backends (not-found and duplicate errors, ordering, creator population),
// so service and API tests can exercise whole flows. Each method also has a
// function field that, when set, replaces the default behavior:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	    return nil, errors.New("connection reset")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
