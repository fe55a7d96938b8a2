// Package services implements the HTTP client for the movie service API.
//
// [MovieAPI] is the contract the stores consume; [MovieService] is the live
// implementation. The list and detail endpoints come in two flavors: the
// public ones (/api/movies, /api/public/movies) omit per-user like flags,
// while the authenticated ones (/api/movies-with-likes) include them. The
// caller picks the flavor from its session state; cookies ride along on the
// session's HTTP client so the service can resolve the user.
//
// Wire payloads are normalized into [models.Movie] values here: absent
// user_rating defaults to 0 and absent is_liked to false (the service never
// reports like state to anonymous callers).
package services
