// Package server provides HTTP routing and the OAuth callback listener for
// the CLI login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [CallbackHandler] receives the authorization-code redirect during Google
// sign-in. It validates the state parameter (CSRF protection) and sends the
// captured code through a channel. The code is NOT exchanged locally: the
// movie service holds the client secret, so the CLI forwards the code to the
// service's callback endpoint, which performs the exchange and establishes
// the session cookie.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `auth google`, a temporary HTTP server starts on
// localhost, handles the redirect, and shuts down after the code is captured.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
