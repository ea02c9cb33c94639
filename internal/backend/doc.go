// Package backend provides the gateway to the review service HTTP API.
//
// # Overview
//
// The review service crawls app stores, stores apps and reviews, runs AI
// analysis, and computes topic models. This package is reviewdeck's only view
// of it: the Gateway interface, an HTTP implementation (*Client), the wire
// types, and the error taxonomy every caller reasons about.
//
// # API Endpoints
//
//   - GET    /api/apps                 roster ([]AppSummary)
//   - GET    /api/apps/{appId}         full detail (AppDetail)
//   - POST   /api/apps/crawl           {app_id} -> AppDetail
//   - POST   /api/apps/analyze         {app_id} -> ack
//   - DELETE /api/apps/{appId}         ack
//   - POST   /api/apps/topic-modeling  {app_id} -> {result: TopicResult}
//
// Payloads are snake_case JSON. Error responses may carry {"detail": "..."}.
//
// # Error Handling
//
// Every method returns one of four error types:
//
//   - *ValidationError: empty app id (checked before any request), or a
//     400/422 from crawl
//   - *NotFoundError: 404 from get, delete, or topic modeling
//   - *InsufficientDataError: 400/422 from topic modeling (too few reviews)
//   - *UpstreamError: everything else, including transport and decode failures
//
// Detail(err) returns the backend's human-readable detail when one was sent.
//
// # Request Handling
//
// All requests:
//   - Use ctx for cancellation; the client itself sets no timeout
//   - Set Accept: application/json and User-Agent: reviewdeck/0.1
//   - Carry a fresh X-Request-ID that is also written to the debug log
//
// Nothing here retries. A request that stalls stalls its caller until the
// transport gives up or ctx is cancelled.
//
// # Testing Considerations
//
// The fakeserver subpackage implements the same contract in memory and is the
// usual target for httptest-based tests.
package backend
