// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - Define application-specific operations available to the delivery mechanisms
//   - Each service focuses on a specific domain area (accounts, task management)
//
// 2. Use Case Implementations:
//   - Coordinate between stores, the listing cache and the notification mailer
//   - Keep side effects (cache invalidation, assignment emails) out of the
//     success path: their failures are logged, never returned
//
// 3. Error Handling:
//   - Expected conditions surface as sentinel errors from store and auth
//     that callers check with errors.Is()
//   - The API layer maps those errors to HTTP status codes
//
// The service layer depends on domain entities and store interfaces, never on
// specific infrastructure implementations.
package service
