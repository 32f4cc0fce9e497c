// Package userapi implements a minimal identity and access-control API:
// account registration, credential login, HMAC-SHA-256 bearer tokens that
// embed identity and role claims, and role-gated endpoints.
//
// Tokens:
//   - TokenService mints compact HS256 tokens (sub, unique_name, name, uid,
//     role, iss, aud, exp) and validates them. Role claims reflect the role
//     set at issuance time; later role changes apply on the next login.
//   - Authorize is a pure decision function over the request Principal and
//     an endpoint's required roles, independent of the HTTP transport.
//
// Store:
//   - RepositoryManager exposes the Users and Roles repositories over Bun.
//     Username uniqueness is enforced by the database, and role creation
//     plus assignment are idempotent, so concurrent registrations and
//     role grants converge without partial state.
package userapi
