// Package rest implements the request executor shared by the auth and users
// API clients.
//
// # Protocol
//
// Every call goes through Executor.Do, which runs an explicit two-phase flow:
//
//  1. attempt the request (JSON or multipart body, optional bearer token);
//  2. if the server answered 401 to an authorized, retryable request that is
//     not the refresh call itself, ask the Refresher for a new access token
//     and attempt the identical request exactly once more.
//
// There is no recursion: the second attempt is never evaluated for refresh,
// so a request is sent at most twice.
//
// # Outcomes
//
// Do never returns an error. Every result, including transport failures,
// undecodable bodies, storage failures and expired sessions, is an *Outcome:
//
//   - transport or decode failure: Status 0, ConnectivityMessage, Err wraps ErrTransport or ErrDecode;
//   - unrecoverable 401: Status 401, SessionExpiredMessage, Err is ErrSessionExpired, tokens cleared;
//   - local storage failure: Status 0, StorageFailureMessage, Err wraps session.ErrStorage;
//   - anything else: the server envelope passed through with the HTTP status.
package rest
