// Package tmdb provides an HTTP client for The Movie Database (TMDB) v3 API.
//
// # Overview
//
// The client wraps the handful of read-only endpoints movieflix uses. Every
// call is a single GET followed by a JSON decode:
//
//   - GET trending/movie/week, movie/popular, movie/top_rated: browse rows
//   - GET search/movie: title search and autocomplete suggestions
//   - GET search/person + person/{id}/movie_credits: actor search
//   - GET movie/{id}: detail view (genres, runtime)
//
// # Client Usage
//
//	client, err := tmdb.NewClient(tmdb.Options{APIKey: cfg.APIKey})
//	if err != nil {
//		return err
//	}
//	movies, err := client.FetchCategory(ctx, tmdb.CategoryTrending)
//
// # Request Handling
//
// All requests carry the api_key query parameter, Accept: application/json
// and a movieflix User-Agent, and honour the caller's context. Responses with
// status >= 400 become errors naming the endpoint and status; malformed JSON
// becomes a "decode response" error. There is no retry, caching or
// rate-limit handling.
//
// # Images
//
// TMDB returns relative image paths. ImageURL joins one with the configured
// image base and substitutes a placeholder poster when a movie has no artwork.
package tmdb
