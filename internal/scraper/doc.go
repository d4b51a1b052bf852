// Package scraper combines the leaders api and wikipedia into one dataset.
//
// The leaders api side is stateful: every request depends on the current
// token, which is refreshed on the single control goroutine as it expires.
// The wikipedia side is stateless: each page fetch depends only on the url,
// which is what lets the parallel mode hand pages out to workers that share
// nothing with each other or with the session.
//
// Each step generally has this structure:
// 1. make the request (leaders.Session or a SummaryFetcher).
// 2. make assertions on the response (status, body shape).
// 3. transform the response into model types.
//
// A failure is contained to the smallest unit it concerns: a page failure
// only affects one leader's summary, a leaders list failure only skips one
// country. Only the initial token and the country list abort a run.
package scraper
