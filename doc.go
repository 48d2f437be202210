// Package auth provides the authentication core for the semiperm backend:
// JWT issuance and validation, account/member persistence, and the context
// plumbing that carries the authenticated principal through a request.
//
// Token lifecycle:
//   - TokenService mints paired access/refresh JWTs whose claim set is the
//     minimal (memberId, accountId) pair. Validation classifies failures into
//     expired, malformed, unsupported, and invalid so HTTP layers can respond
//     without leaking parser internals.
//
// Accounts and members:
//   - Account is the identity record keyed by the unique (social_id,
//     social_type) pair. It exists as soon as a social login succeeds, before
//     the user completes onboarding.
//   - Member is created by RegisterMemberHandler once onboarding completes;
//     the same transaction flips the account's member flag.
//
// The social login orchestration itself lives in the social subpackage, which
// consumes the repositories and TokenService defined here.
package auth
