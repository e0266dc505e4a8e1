// Package backend provides the Paraverse API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Authentication, JWT and admin role services
// - internal/feed: Country-scoped feed filtering and pagination
// - internal/scope: Country scope resolution and normalization
// - internal/ads: Ad selection and carousel rotation
// - internal/websocket: WebSocket server for real-time updates
// - internal/storage: File storage (S3) operations
// - internal/database: Database connection and migrations
// - internal/email: Email service integration
// - internal/geocode: Postal code geocoding client
// - internal/cache: Redis caching
// - internal/middleware: HTTP middleware (rate limiting, etc.)

// See the individual package documentation for detailed API reference.
package backend
